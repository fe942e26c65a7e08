package main

// General API documentation for swaggo. Regenerate docs/ with `swag init`.
//
// @title           stylizerd API
// @version         1.0
// @description     HTTP API for face stylization over local model bundles.
//
// @contact.name   stylizerd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
