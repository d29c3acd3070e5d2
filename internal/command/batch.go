package command

// Batch groups an ordered sequence of commands into one atomic history
// entry: execute runs children in order, undo in reverse order.
type Batch struct {
	meta
	children []Command
}

func NewBatch(description, executedBy string, children ...Command) *Batch {
	return &Batch{
		meta:     newMeta(TypeBatch, description, executedBy),
		children: children,
	}
}

// Children returns the wrapped commands in execution order.
func (b *Batch) Children() []Command {
	return append([]Command(nil), b.children...)
}

func (b *Batch) Execute() error {
	for _, c := range b.children {
		if err := c.Execute(); err != nil {
			return err
		}
	}
	return nil
}

func (b *Batch) Undo() error {
	for i := len(b.children) - 1; i >= 0; i-- {
		if err := b.children[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}
