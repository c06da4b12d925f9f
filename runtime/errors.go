package runtime

import (
	"fmt"
)

func recoveredError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// invokeHook runs a lifecycle hook, converting a panic into a captured
// error instead of unwinding through the patch.
func (app *App) invokeHook(h Hook, c *Component, info string) {
	defer func() {
		if r := recover(); r != nil {
			app.handleError(recoveredError(r), c, info)
		}
	}()
	h(c)
}

// handleError walks the ancestor errorCaptured chain, stopping when a
// hook returns false, then hands the error to the global handler.
// Dependency collection is suspended so handlers subscribe nothing.
func (app *App) handleError(err error, c *Component, info string) {
	rt := app.rt
	rt.PushTarget(nil)
	defer rt.PopTarget()

	if c != nil && !app.handlingError {
		app.handlingError = true
		for cur := c.parent; cur != nil; cur = cur.parent {
			for _, hook := range cur.options.ErrorCaptured {
				propagate, hookErr := app.invokeErrorCaptured(hook, err, c, info, cur)
				if hookErr != nil {
					app.globalError(hookErr, cur, "errorCaptured hook")
					continue
				}
				if !propagate {
					app.handlingError = false
					return
				}
			}
		}
		app.handlingError = false
	}
	app.globalError(err, c, info)
}

func (app *App) invokeErrorCaptured(hook ErrorCapturedHook, err error, c *Component, info string, owner *Component) (propagate bool, hookErr error) {
	defer func() {
		if r := recover(); r != nil {
			propagate = true
			hookErr = recoveredError(r)
		}
	}()
	return hook(err, c, info), nil
}

func (app *App) globalError(err error, c *Component, info string) {
	cfg := app.rt.Config()
	if cfg.OnError != nil {
		app.rt.HandleError(c, fmt.Errorf("%s: %w", info, err))
		return
	}
	app.warnf(c, "unhandled error in %s: %v", info, err)
}
