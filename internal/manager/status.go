package manager

import (
	"time"

	"stylizerd/pkg/types"
)

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := time.Now()
	resp := types.StatusResponse{
		DefaultModel:   m.defaultModel,
		RegistrySize:   len(m.registry),
		LoadsTotal:     m.loadsTotal,
		LastError:      m.lastErr,
		UptimeSeconds:  int64(now.Sub(m.startedAt).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	resp.Instances = make([]types.InstanceStatus, 0, len(m.instances))
	for _, inst := range m.instances {
		resp.RequestsTotal += inst.requests
		resp.Instances = append(resp.Instances, types.InstanceStatus{
			ModelID:    inst.modelID,
			State:      "ready",
			LastUsed:   inst.lastUsed.Unix(),
			Requests:   inst.requests,
			Stylized:   inst.stylized,
			OutputSize: inst.outSize,
		})
	}
	return resp
}
