package merge

import (
	"fmt"

	"smartbeaver/internal/syntax"
)

// Marker attributes. They steer the merge and never reach the output.
var (
	contractAttr    = syntax.MustAttr("#[ink::contract]")
	extensionAttr   = syntax.MustAttr("#[smart_beaver::extension]")
	storageAttr     = syntax.MustAttr("#[ink(storage)]")
	extStorageAttr  = syntax.MustAttr("#[smart_beaver::storage]")
	constructorAttr = syntax.MustAttr("#[ink(constructor)]")
	initAttr        = syntax.MustAttr("#[smart_beaver::init]")
	appendAttr      = syntax.MustAttr("#[smart_beaver::append]")
	replaceAttr     = syntax.MustAttr("#[smart_beaver::replace]")
)

// StrategyKind is how an extension method combines with its namesake in the
// target impl block.
type StrategyKind int

const (
	// StrategyNone means no directive: the method is copied when the target
	// lacks it and left alone otherwise.
	StrategyNone StrategyKind = iota
	StrategyAppend
	StrategyReplace
)

func (k StrategyKind) String() string {
	switch k {
	case StrategyAppend:
		return "append"
	case StrategyReplace:
		return "replace"
	}
	return "none"
}

// Strategy is a resolved merge directive. Line is only meaningful for
// StrategyAppend.
type Strategy struct {
	Kind StrategyKind
	Line int
}

func (s Strategy) String() string {
	if s.Kind == StrategyAppend {
		return fmt.Sprintf("append(line = %d)", s.Line)
	}
	return s.Kind.String()
}

// ResolveStrategy reads the merge directive from a method's attributes.
// The returned error is never fatal: ErrAmbiguousMergeDirective when both
// markers are present (the strategy is StrategyNone) and
// ErrMalformedAttribute when the append line cannot be read (the line is 0).
func ResolveStrategy(attrs []syntax.Attribute) (Strategy, error) {
	ai := syntax.FindAttr(attrs, appendAttr)
	hasReplace := syntax.HasAttr(attrs, replaceAttr)

	switch {
	case ai >= 0 && hasReplace:
		return Strategy{}, fmt.Errorf("%w: both append and replace present", ErrAmbiguousMergeDirective)
	case hasReplace:
		return Strategy{Kind: StrategyReplace}, nil
	case ai < 0:
		return Strategy{}, nil
	}

	s := Strategy{Kind: StrategyAppend}
	payload, ok := attrs[ai].Payload()
	if !ok {
		return s, nil
	}
	line, err := syntax.ParseLineNumber(payload)
	if err != nil {
		return s, err
	}
	s.Line = line
	return s, nil
}

// stripMarkers drops merge directives from a method copied into the output.
func stripMarkers(attrs []syntax.Attribute) []syntax.Attribute {
	return syntax.WithoutAttrs(attrs, appendAttr, replaceAttr)
}
