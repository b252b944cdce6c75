package browser

import (
	"github.com/entrhq/autopilot/pkg/browser"
	"github.com/entrhq/autopilot/pkg/storage"
	"github.com/entrhq/autopilot/pkg/tools"
)

// RegisterTools wires every browser tool into the registry.
func RegisterTools(reg *tools.Registry, manager *browser.Manager, store storage.Store) {
	reg.MustRegister(
		NewCreateSessionTool(manager),
		NewListSessionsTool(manager),
		NewCloseSessionTool(manager),
		NewNavigateTool(manager),
		NewClickTool(manager),
		NewInputTextTool(manager),
		NewReadValueTool(manager),
		NewExtractContentTool(manager),
		NewScreenshotTool(manager, store),
		NewUploadFileTool(manager),
	)
}
