/*
Package tunable binds the component attributes to the entries of a networked key-value store.

The binding is done in two phases. At the declaration phase each component type gets its Class,
which keeps the Tunable descriptors and the Feedback accessors. The declarations don't do any I/O and are
usually stored in the package level variables:

	type Drive struct {
		tunable.Table
	}

	var (
		driveClass = tunable.NewClass(&Drive{})
		speed      = tunable.MustNew(driveClass, "speed", 0.5)
		pidSpeed   = tunable.MustNew(driveClass, "speed", 1.0, tunable.Subtable("pid"))
		angle      = driveClass.MustFeedback((*Drive).GetAngle)
	)

At the setup phase the component instance, and its name is known. The Setup resolves all the descriptors
into the store entries under the '/components/drive' namespace and records them within the instance Table:

	d := &Drive{}
	if err := tunable.Setup(ctx, s, d, "drive"); err != nil {
		...
	}
	v, err := speed.Get(d)

Once bound the Get and Set functions proxy the values directly to the store entries. The update callbacks
are called on the store notification goroutine.
*/
package tunable
