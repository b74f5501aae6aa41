package object

// Instance is a live value of a Class: the runtime counterpart of
// ClassType, one per `new` at the VM level. Fields are laid out by
// Field.Slot (instance-bound fields only; static/class-bound fields
// live on the Class itself, not here).
type Instance struct {
	Class  *Class
	Fields []Object
}

func NewInstance(c *Class, slots int) *Instance {
	return &Instance{Class: c, Fields: make([]Object, slots)}
}

func (i *Instance) RuntimeType() Type { return i.Class.Type() }
