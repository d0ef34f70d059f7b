package nodes

import "github.com/zeusync/behave/internal/core/bt"

// RegisterBuiltins registers every process of this package under its type name.
func RegisterBuiltins(r *bt.Registry) {
	for _, b := range builtins {
		r.MustRegister(b.desc, b.factory)
	}
}

type builtin struct {
	desc    bt.Descriptor
	factory bt.Factory
}

var builtins = []builtin{
	{
		desc:    bt.Descriptor{Name: "Selector", Kind: bt.KindComposite, Description: "ticks children in order until one succeeds"},
		factory: func() bt.Process { return &Selector{base: named("Selector")} },
	},
	{
		desc:    bt.Descriptor{Name: "Sequence", Kind: bt.KindComposite, Description: "ticks children in order until one fails"},
		factory: func() bt.Process { return &Sequence{base: named("Sequence")} },
	},
	{
		desc:    bt.Descriptor{Name: "Parallel", Kind: bt.KindComposite, Description: "ticks all children each tick, succeeds when all succeed"},
		factory: func() bt.Process { return &Parallel{base: named("Parallel")} },
	},
	{
		desc:    bt.Descriptor{Name: "Inverter", Kind: bt.KindDecorator, Description: "swaps success and failure"},
		factory: func() bt.Process { return &Inverter{base: named("Inverter")} },
	},
	{
		desc:    bt.Descriptor{Name: "Succeeder", Kind: bt.KindDecorator, Description: "always succeeds once the child finishes"},
		factory: func() bt.Process { return &Succeeder{base: named("Succeeder")} },
	},
	{
		desc:    bt.Descriptor{Name: "Repeat", Kind: bt.KindDecorator, Description: "reruns the child after each success"},
		factory: func() bt.Process { return &Repeat{base: named("Repeat")} },
	},
	{
		desc:    bt.Descriptor{Name: "Timeout", Kind: bt.KindDecorator, Description: "fails the child after a duration"},
		factory: func() bt.Process { return &Timeout{base: named("Timeout")} },
	},
	{
		desc:    bt.Descriptor{Name: "VarIsSet", Kind: bt.KindCondition, Description: "checks that a variable is present and not false"},
		factory: func() bt.Process { return &VarIsSet{base: named("VarIsSet")} },
	},
	{
		desc:    bt.Descriptor{Name: "VarEquals", Kind: bt.KindCondition, Description: "compares a variable with a value"},
		factory: func() bt.Process { return &VarEquals{base: named("VarEquals")} },
	},
	{
		desc:    bt.Descriptor{Name: "Log", Kind: bt.KindAction, Description: "logs a message"},
		factory: func() bt.Process { return &Log{base: named("Log")} },
	},
	{
		desc:    bt.Descriptor{Name: "Wait", Kind: bt.KindAction, Description: "waits for a duration"},
		factory: func() bt.Process { return &Wait{base: named("Wait")} },
	},
	{
		desc:    bt.Descriptor{Name: "MoveTo", Kind: bt.KindAction, Description: "moves the bound transform to a target"},
		factory: func() bt.Process { return &MoveTo{base: named("MoveTo")} },
	},
	{
		desc:    bt.Descriptor{Name: "SetVar", Kind: bt.KindAction, Description: "writes a variable"},
		factory: func() bt.Process { return &SetVar{base: named("SetVar")} },
	},
	{
		desc:    bt.Descriptor{Name: "Result", Kind: bt.KindAction, Description: "finishes with a fixed result"},
		factory: func() bt.Process { return &Result{base: named("Result")} },
	},
}
