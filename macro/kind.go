package macro

import "fmt"

// Kind identifies the parameter a macro modulates. Values below 0x20 are the
// standard kinds; operator kinds pack (operator+1)<<5 | param.
type Kind uint8

// Standard macro kinds, in wire order.
const (
	KindVol Kind = iota
	KindArp
	KindDuty
	KindWave
	KindPitch
	KindEx1
	KindEx2
	KindEx3
	KindAlg
	KindFB
	KindFMS
	KindAMS
	KindPanL
	KindPanR
	KindPhaseReset
	KindEx4
	KindEx5
	KindEx6
	KindEx7
	KindEx8
	KindEx9
	KindEx10

	NumStandard = int(KindEx10) + 1
)

// Operator macro layout.
const (
	Operators      = 4
	OperatorParams = 20
	operatorBase   = 0x20
)

// Operator parameters, in wire order.
const (
	OpAM = iota
	OpAR
	OpDR
	OpMult
	OpRR
	OpSL
	OpTL
	OpDT2
	OpRS
	OpDT
	OpD2R
	OpSSG
	OpDAM
	OpDVB
	OpEGT
	OpKSL
	OpSUS
	OpVIB
	OpWS
	OpKSR
)

var standardNames = [NumStandard]string{
	"vol", "arp", "duty", "wave", "pitch", "ex1", "ex2", "ex3",
	"alg", "fb", "fms", "ams", "panL", "panR", "phaseReset",
	"ex4", "ex5", "ex6", "ex7", "ex8", "ex9", "ex10",
}

var operatorNames = [OperatorParams]string{
	"am", "ar", "dr", "mult", "rr", "sl", "tl", "dt2", "rs", "dt",
	"d2r", "ssg", "dam", "dvb", "egt", "ksl", "sus", "vib", "ws", "ksr",
}

// OperatorKind returns the kind for parameter param of FM operator op.
func OperatorKind(op, param int) Kind {
	return Kind((op+1)<<5 | param)
}

// Operator decodes an operator kind. ok is false for standard kinds and for
// parameters outside the operator table.
func (k Kind) Operator() (op, param int, ok bool) {
	if k < operatorBase {
		return 0, 0, false
	}
	op = (int(k>>5) - 1) & 3
	param = int(k & 0x1F)
	if param >= OperatorParams {
		return 0, 0, false
	}
	return op, param, true
}

// Valid reports whether k maps to a definition slot.
func (k Kind) Valid() bool {
	if k < operatorBase {
		return int(k) < NumStandard
	}
	_, _, ok := k.Operator()
	return ok
}

func (k Kind) String() string {
	if k < operatorBase {
		if int(k) < NumStandard {
			return standardNames[k]
		}
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
	if op, param, ok := k.Operator(); ok {
		return fmt.Sprintf("op%d.%s", op+1, operatorNames[param])
	}
	return fmt.Sprintf("kind(%#x)", uint8(k))
}

// KindByName parses the names produced by Kind.String ("vol", "op2.tl").
func KindByName(name string) (Kind, bool) {
	for i, n := range standardNames {
		if n == name {
			return Kind(i), true
		}
	}
	var op int
	var param string
	if _, err := fmt.Sscanf(name, "op%d.%s", &op, &param); err != nil || op < 1 || op > Operators {
		return 0, false
	}
	for i, n := range operatorNames {
		if n == param {
			return OperatorKind(op-1, i), true
		}
	}
	return 0, false
}
