package modulecmd

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	activateMessageType   = "pagelist.module.activate"
	deactivateMessageType = "pagelist.module.deactivate"
	updateMessageType     = "pagelist.module.update"
)

var moduleIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

func validateModuleID(id *string) *validation.FieldRules {
	return validation.Field(id,
		validation.Required.Error("module id is required"),
		validation.Match(moduleIDPattern).Error("module id must be lower case letters, digits, dashes or underscores"),
	)
}

// ActivateModuleCommand activates the plugin registered under Module.
type ActivateModuleCommand struct {
	Module string `json:"module"`
}

// Type implements command.Message.
func (ActivateModuleCommand) Type() string { return activateMessageType }

func (cmd ActivateModuleCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validateModuleID(&cmd.Module))
}

// DeactivateModuleCommand deactivates the plugin registered under Module and
// drops it from the active plugins list.
type DeactivateModuleCommand struct {
	Module string `json:"module"`
}

// Type implements command.Message.
func (DeactivateModuleCommand) Type() string { return deactivateMessageType }

func (cmd DeactivateModuleCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validateModuleID(&cmd.Module))
}

// UpdateModuleCommand runs the version migration of the plugin registered
// under Module.
type UpdateModuleCommand struct {
	Module string `json:"module"`
}

// Type implements command.Message.
func (UpdateModuleCommand) Type() string { return updateMessageType }

func (cmd UpdateModuleCommand) Validate() error {
	return validation.ValidateStruct(&cmd, validateModuleID(&cmd.Module))
}
