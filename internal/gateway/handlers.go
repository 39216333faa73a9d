package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riseplugins/launchpad/internal/domain"
)

// Protocol-level commands the host issues to every plugin, independent of
// the manifest.
const (
	CmdInitialize = "initialize"
	CmdShutdown   = "shutdown"
)

// Command names as declared in the plugin manifest consumed by the host.
const (
	CmdLaunchMode     = "launch_mode_command"
	CmdCloseMode      = "close_mode_command"
	CmdGetModes       = "get_modes_command"
	CmdAddMode        = "add_mode_command"
	CmdDeleteMode     = "delete_mode_command"
	CmdAddApps        = "add_apps_to_mode_command"
	CmdRemoveApps     = "remove_apps_from_mode_command"
	CmdListAppsInMode = "list_apps_in_mode_command"
)

// RegisterModeHandlers binds the mode lifecycle commands to a gateway.
func RegisterModeHandlers(g *Gateway, svc domain.ModeService) {
	g.Register(CmdLaunchMode, launchModeHandler(svc))
	g.Register(CmdCloseMode, closeModeHandler(svc))
	g.Register(CmdGetModes, getModesHandler(svc))
	g.Register(CmdAddMode, addModeHandler(svc))
	g.Register(CmdDeleteMode, deleteModeHandler(svc))
	g.Register(CmdAddApps, addAppsHandler(svc))
	g.Register(CmdRemoveApps, removeAppsHandler(svc))
	g.Register(CmdListAppsInMode, listAppsHandler(svc))
}

func launchModeHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		mode, ok := StringParam(params, "mode")
		if !ok {
			return failure("Missing 'mode' parameter.")
		}
		if err := svc.LaunchMode(mode); err != nil {
			return failure(messageFor(mode, err))
		}
		return success(fmt.Sprintf("Mode '%s' launched.", mode))
	}
}

func closeModeHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		mode, ok := StringParam(params, "mode")
		if !ok {
			return failure("Missing 'mode' parameter.")
		}
		if err := svc.CloseMode(mode); err != nil {
			return failure(messageFor(mode, err))
		}
		return success(fmt.Sprintf("Mode '%s' closed.", mode))
	}
}

func getModesHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		names, err := svc.ListModes()
		if err != nil {
			return failure(messageFor("", err))
		}
		if len(names) == 0 {
			return success("No modes defined yet.")
		}
		return success(fmt.Sprintf("Available modes: %s.", strings.Join(names, ", ")))
	}
}

func addModeHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		mode, ok := StringParam(params, "mode")
		if !ok {
			return failure("Missing 'mode' parameter.")
		}
		apps, err := NormalizeApps(params["apps"])
		if err != nil {
			return failure("'apps' must be a list of app names.")
		}
		if err := svc.CreateMode(mode, apps); err != nil {
			return failure(messageFor(mode, err))
		}
		return success(fmt.Sprintf("Mode '%s' created with %d apps.", mode, len(apps)))
	}
}

func deleteModeHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		mode, ok := StringParam(params, "mode")
		if !ok {
			return failure("Missing 'mode' parameter.")
		}
		if err := svc.DeleteMode(mode); err != nil {
			return failure(messageFor(mode, err))
		}
		return success(fmt.Sprintf("Mode '%s' successfully deleted.", mode))
	}
}

func addAppsHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		mode, ok := StringParam(params, "mode")
		if !ok {
			return failure("Missing 'mode' parameter.")
		}
		apps, err := NormalizeApps(params["apps"])
		if err != nil {
			return failure("'apps' must be a list of app names.")
		}
		added, err := svc.AddAppsToMode(mode, apps)
		if err != nil {
			return failure(messageFor(mode, err))
		}
		if len(added) == 0 {
			return success(fmt.Sprintf("All of those apps are already in mode '%s'.", mode))
		}
		return success(fmt.Sprintf("Apps %s added to mode '%s'.", strings.Join(added, ", "), mode))
	}
}

func removeAppsHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		mode, ok := StringParam(params, "mode")
		if !ok {
			return failure("Missing 'mode' parameter.")
		}
		apps, err := NormalizeApps(params["apps"])
		if err != nil {
			return failure("'apps' must be a list of app names.")
		}
		if err := svc.RemoveAppsFromMode(mode, apps); err != nil {
			return failure(messageFor(mode, err))
		}
		return success(fmt.Sprintf("Apps %s removed from mode '%s'.", strings.Join(apps, ", "), mode))
	}
}

func listAppsHandler(svc domain.ModeService) Handler {
	return func(params map[string]any) domain.CommandResult {
		mode, ok := StringParam(params, "mode")
		if !ok {
			return failure("Missing 'mode' parameter.")
		}
		names, err := svc.ListAppsInMode(mode)
		if err != nil {
			return failure(messageFor(mode, err))
		}
		if len(names) == 0 {
			return success(fmt.Sprintf("Mode '%s' has no apps.", mode))
		}
		return success(fmt.Sprintf("Apps in mode '%s': %s.", mode, strings.Join(names, ", ")))
	}
}

func success(msg string) domain.CommandResult {
	return domain.CommandResult{Success: true, Message: msg}
}

func failure(msg string) domain.CommandResult {
	return domain.CommandResult{Success: false, Message: msg}
}

// messageFor translates domain errors into the human-readable responses the
// host speaks back to the user.
func messageFor(mode string, err error) string {
	var resErr *domain.ResolutionError
	var execErr *domain.ExecutionError
	var storageErr *domain.StorageError

	switch {
	case errors.Is(err, domain.ErrModeNotFound):
		return fmt.Sprintf("Mode '%s' does not exist.", mode)
	case errors.Is(err, domain.ErrModeExists):
		return fmt.Sprintf("Mode '%s' already exists.", mode)
	case errors.As(err, &resErr):
		return fmt.Sprintf("These apps are not currently running: %s.",
			strings.Join(resErr.Apps, ", "))
	case errors.As(err, &execErr):
		return fmt.Sprintf("Some apps failed to %s: %s.",
			execErr.Action, strings.Join(execErr.Apps, ", "))
	case errors.As(err, &storageErr):
		return "Failed to access the modes file."
	default:
		return fmt.Sprintf("Operation failed: %v.", err)
	}
}
