package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// HIR documents
	HIRInfo           Code = 1000
	HIRDecode         Code = 1001
	HIRFormatVersion  Code = 1002
	HIRBadType        Code = 1003
	HIRUnknownNode    Code = 1004
	HIRUnknownData    Code = 1005
	HIRUnknownVariant Code = 1006
	HIRArity          Code = 1007
	HIRDuplicateDef   Code = 1008
	HIRDuplicateData  Code = 1009
	HIRMissingField   Code = 1010
	HIRBadLiteral     Code = 1011
	HIRUnknownOp      Code = 1012
	HIRUnknownGlobal  Code = 1013
	HIRDoubleBinding  Code = 1014

	// monomorphization
	MonoInfo          Code = 2000
	MonoEntryNotFound Code = 2001
	MonoGenericEntry  Code = 2002
	MonoInternal      Code = 2003
	MonoInvalidOutput Code = 2004

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		HIRInfo:           "HIR document information",
		HIRDecode:         "cannot decode HIR document",
		HIRFormatVersion:  "unsupported HIR format version",
		HIRBadType:        "malformed type expression",
		HIRUnknownNode:    "unknown node kind",
		HIRUnknownData:    "unknown data type",
		HIRUnknownVariant: "unknown variant",
		HIRArity:          "wrong number of operands",
		HIRDuplicateDef:   "duplicate definition",
		HIRDuplicateData:  "duplicate data type",
		HIRMissingField:   "missing required field",
		HIRBadLiteral:     "malformed literal",
		HIRUnknownOp:      "unknown operator or intrinsic",
		HIRUnknownGlobal:  "unknown global definition",
		HIRDoubleBinding:  "value bound under two names",
		MonoInfo:          "Monomorphization information",
		MonoEntryNotFound: "entry point not found",
		MonoGenericEntry:  "entry point must not be generic",
		MonoInternal:      "internal compiler error",
		MonoInvalidOutput: "lowered program failed validation",
		IOLoadFileError:   "I/O load file error",
		IOCacheError:      "cache error",
		ObsInfo:           "Observability information",
		ObsTimings:        "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("HIR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("MON%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
