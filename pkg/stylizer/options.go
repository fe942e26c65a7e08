package stylizer

// Options configure a FaceStylizer. ModelPath is required; everything else
// has working defaults. Options are copied at construction and immutable
// afterward.
type Options struct {
	// ModelPath points at a model bundle: a directory with manifest.toml or
	// a single-file .task archive.
	ModelPath string
	// Threads used by runtimes that support it. 0 means runtime default.
	Threads int
}

// OptionsFromModelPath derives default options from a bundle path.
func OptionsFromModelPath(path string) Options {
	return Options{ModelPath: path}
}
