package ast

import "fmt"

// Intrinsic is a built-in operation implemented by the backend runtime.
type Intrinsic uint8

const (
	IntrinsicOut Intrinsic = iota
	IntrinsicIn
	IntrinsicLenList
	IntrinsicGetList
	IntrinsicSkipList
	IntrinsicTrimList
	IntrinsicJoinList
	IntrinsicNumToStr
)

var intrinsicNames = [...]string{
	IntrinsicOut:      "out",
	IntrinsicIn:       "in",
	IntrinsicLenList:  "len_list",
	IntrinsicGetList:  "get_list",
	IntrinsicSkipList: "skip_list",
	IntrinsicTrimList: "trim_list",
	IntrinsicJoinList: "join_list",
	IntrinsicNumToStr: "num_to_str",
}

func (i Intrinsic) String() string {
	if int(i) < len(intrinsicNames) {
		return "@" + intrinsicNames[i]
	}
	return "@unknown"
}

// ParseIntrinsic accepts the name with or without the leading '@'.
func ParseIntrinsic(s string) (Intrinsic, error) {
	if len(s) > 0 && s[0] == '@' {
		s = s[1:]
	}
	for i, name := range intrinsicNames {
		if name == s {
			return Intrinsic(i), nil
		}
	}
	return 0, fmt.Errorf("unknown intrinsic %q", s)
}
