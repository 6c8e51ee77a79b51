package scoped

// noCopy is embedded into Slot so that "go vet" reports copies of a slot
// handle. Slots are only ever used through the pointer returned by Declare.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
