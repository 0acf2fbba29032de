package ast

import "fmt"

// UnaryOp enumerates built-in unary operators.
type UnaryOp uint8

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
	UnaryHead
	UnaryTail
)

var unaryNames = [...]string{
	UnaryNeg:  "neg",
	UnaryNot:  "not",
	UnaryHead: "head",
	UnaryTail: "tail",
}

func (op UnaryOp) String() string {
	if int(op) < len(unaryNames) {
		return unaryNames[op]
	}
	return "unknown"
}

// ParseUnaryOp maps an operator name (as printed by String) back to the op.
func ParseUnaryOp(s string) (UnaryOp, error) {
	for i, name := range unaryNames {
		if name == s {
			return UnaryOp(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unary operator %q", s)
}

// BinaryOp enumerates built-in binary operators.
type BinaryOp uint8

const (
	BinaryAdd BinaryOp = iota
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryRem
	BinaryEq
	BinaryNotEq
	BinaryLess
	BinaryLessEq
	BinaryMore
	BinaryMoreEq
	BinaryAnd
	BinaryOr
	BinaryXor
	BinaryJoin
)

var binaryNames = [...]string{
	BinaryAdd:    "add",
	BinarySub:    "sub",
	BinaryMul:    "mul",
	BinaryDiv:    "div",
	BinaryRem:    "rem",
	BinaryEq:     "eq",
	BinaryNotEq:  "neq",
	BinaryLess:   "lt",
	BinaryLessEq: "le",
	BinaryMore:   "gt",
	BinaryMoreEq: "ge",
	BinaryAnd:    "and",
	BinaryOr:     "or",
	BinaryXor:    "xor",
	BinaryJoin:   "join",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryNames) {
		return binaryNames[op]
	}
	return "unknown"
}

func ParseBinaryOp(s string) (BinaryOp, error) {
	for i, name := range binaryNames {
		if name == s {
			return BinaryOp(i), nil
		}
	}
	return 0, fmt.Errorf("unknown binary operator %q", s)
}
