package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves an ID unique to this machine, hashed with the
// application name so the raw machine id isn't published on the broker.
// It falls back to "local" when the platform doesn't provide one.
func MachineID() string {
	id, err := machineid.ProtectedID("saber")
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return "local"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
