package generator

import "strings"

// normalizeRendering maps raw rendering hints from the sheet onto the names
// the rendering engine understands. Unknown values pass through unchanged
// and are picked up by the workspace-launcher fallback.
func normalizeRendering(rendering string) string {
	switch rendering {
	case "multicheckbox", "inlinemulticheckbox":
		return "multiCheckbox"
	case "boolean":
		return "radio"
	case "decimalnumber":
		return "number"
	default:
		return rendering
	}
}

// plainInputRenderings are the renderings served by a regular form input.
// Matching is by substring: anything that contains none of these renders as
// a workspace launcher instead.
var plainInputRenderings = []string{
	"radio", "number", "text", "date", "time", "markdown", "select",
	"checkbox", "toggle", "multiCheckbox", "textarea", "numeric",
}

func rendersWorkspace(rendering string) bool {
	for _, known := range plainInputRenderings {
		if strings.Contains(rendering, known) {
			return false
		}
	}
	return true
}

// workspaceButtonLabel names the launch button for a workspace rendering.
func workspaceButtonLabel(workspace string) string {
	switch workspace {
	case "immunization-form-workspace":
		return "Capture patient immunizations"
	case "order-basket":
		return "Order medications"
	case "appointments-form-workspace":
		return "Set the next appointment date"
	case "patient-vitals-biometrics-form-workspace":
		return "Capture patient vitals"
	case "medications-form-workspace":
		return "Active medications"
	default:
		return "Open Workspace"
	}
}
