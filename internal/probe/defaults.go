package probe

import (
	"time"

	"github.com/Iron-Ham/medic/internal/config"
	"github.com/Iron-Ham/medic/internal/logging"
)

// NewDefaultRegistry builds the menu: the six diagnostics followed by the
// report generator over all of them.
func NewDefaultRegistry(cfg *config.Config, logger *logging.Logger) *Registry {
	r := NewRegistry(
		NewSystemProbe(time.Now()),
		NewDiskProbe(DefaultDiskPath()),
		NewToolchainProbe(cfg.Toolchain.Tools, cfg.Toolchain.Timeout()),
		NewStorageProbe(StorageOptionsFromConfig(cfg.Storage)),
		NewInputProbe(cfg.Input),
		NewNetworkProbe(cfg.Network.Hosts, cfg.Network.Timeout()),
	)
	r.Register(NewReportProbe(ReportOptionsFromConfig(cfg.Report), r.Diagnostics(), logger))
	return r
}
