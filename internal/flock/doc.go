// Package flock provides advisory file locks for the file-backed store.
//
// Exclusive and Unlock are the platform primitives. Acquire builds a
// lock-file based mutex on top of them that retries until a timeout so two
// olympus processes sharing a memory directory never interleave writes to
// the same record.
//
//	release, err := flock.Acquire(ctx, path+".lock", 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer release()
package flock
