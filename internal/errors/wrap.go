package errors

import "fmt"

// Wrap adds context to errors at package boundaries.
// It returns nil if err is nil, allowing for safe inline usage:
//
//	if err := backend.Save(ctx, ns, key, data); err != nil {
//	    return errors.Wrap(err, "failed to save agent profile")
//	}
//
// The wrapped error keeps the original chain, so sentinel checks still work:
//
//	if errors.Is(err, olyerrors.ErrRecordNotFound) { ... }
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is Wrap with a formatted message.
//
//	return errors.Wrapf(err, "failed to evolve agent %s", agentID)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
