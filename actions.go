package main

// ActionDefinition defines an action with its default keybindings and a
// description for diagnostics and config validation.
type ActionDefinition struct {
	Name        string
	Keys        []string
	Description string
}

// actionDefinitions contains all named actions with their default bindings.
// The arrow and paging actions are listed with and without Shift because the
// controller reads the modifier itself to size the step.
var actionDefinitions = []ActionDefinition{
	{"quit", []string{"Escape", "KeyQ"}, "Quit"},
	{"fullscreen", []string{"KeyF"}, "Toggle fullscreen"},
	{"refresh", []string{"F5"}, "Rebuild the file list"},

	{"zoom_fit", []string{"KeyA"}, "Fit image to window"},
	{"zoom_identity", []string{"KeyZ"}, "Zoom to 100%"},
	{"zoom_in", []string{"Equal", "Shift+Equal"}, "Zoom in one step"},
	{"zoom_out", []string{"Minus"}, "Zoom out one step"},
	{"rotate_cw", []string{"KeyR"}, "Rotate 90 degrees clockwise"},
	{"rotate_ccw", []string{"Shift+KeyR"}, "Rotate 90 degrees counter-clockwise"},

	{"scroll_forward", []string{"Space"}, "Page down, next image at the end"},
	{"scroll_backward", []string{"Backspace"}, "Page up, previous image at the top"},
	{"file_next", []string{"PageUp", "Shift+PageUp"}, "Next image (Shift: skip 5)"},
	{"file_previous", []string{"PageDown", "Shift+PageDown"}, "Previous image (Shift: skip 5)"},

	{"move_left", []string{"ArrowLeft", "Shift+ArrowLeft"}, "Pan left, or previous image when fully visible"},
	{"move_right", []string{"ArrowRight", "Shift+ArrowRight"}, "Pan right, or next image when fully visible"},
	{"move_up", []string{"ArrowUp", "Shift+ArrowUp"}, "Pan up"},
	{"move_down", []string{"ArrowDown", "Shift+ArrowDown"}, "Pan down"},
}

// ViewerActions is what the action executor drives. Implemented by the
// NavigationController.
type ViewerActions interface {
	Quit()
	ToggleFullscreen()
	Refresh()

	ZoomFit()
	ZoomIdentity()
	ZoomInStep()
	ZoomOutStep()
	RotateCW()
	RotateCCW()

	ScrollForward()
	ScrollBackward()
	FileNext(mod Modifiers)
	FilePrevious(mod Modifiers)

	MoveLeft(mod Modifiers)
	MoveRight(mod Modifiers)
	MoveUp(mod Modifiers)
	MoveDown(mod Modifiers)
}

// ExecuteAction dispatches a resolved action name to its ViewerActions
// method. Returns false for unknown actions.
func ExecuteAction(action string, mod Modifiers, actions ViewerActions) bool {
	switch action {
	case "quit":
		actions.Quit()
	case "fullscreen":
		actions.ToggleFullscreen()
	case "refresh":
		actions.Refresh()
	case "zoom_fit":
		actions.ZoomFit()
	case "zoom_identity":
		actions.ZoomIdentity()
	case "zoom_in":
		actions.ZoomInStep()
	case "zoom_out":
		actions.ZoomOutStep()
	case "rotate_cw":
		actions.RotateCW()
	case "rotate_ccw":
		actions.RotateCCW()
	case "scroll_forward":
		actions.ScrollForward()
	case "scroll_backward":
		actions.ScrollBackward()
	case "file_next":
		actions.FileNext(mod)
	case "file_previous":
		actions.FilePrevious(mod)
	case "move_left":
		actions.MoveLeft(mod)
	case "move_right":
		actions.MoveRight(mod)
	case "move_up":
		actions.MoveUp(mod)
	case "move_down":
		actions.MoveDown(mod)
	default:
		return false
	}
	return true
}

// GetActionDescriptions returns a map of action names to their descriptions.
func GetActionDescriptions() map[string]string {
	descriptions := make(map[string]string)
	for _, action := range actionDefinitions {
		descriptions[action.Name] = action.Description
	}
	return descriptions
}

// GetDefaultKeybindings returns a map of action names to their default
// keybindings.
func GetDefaultKeybindings() map[string][]string {
	keybindings := make(map[string][]string)
	for _, action := range actionDefinitions {
		keybindings[action.Name] = action.Keys
	}
	return keybindings
}
