package bank

const operatorSize = 24

// decodeOperatorCore reads the first 12 bytes of an operator record, the
// part every OPN/OPM-style layout agrees on.
func decodeOperatorCore(op *Operator, e []byte) {
	op.Enable = e[0] != 0
	op.AM, op.AR, op.DR, op.Mult = e[1], e[2], e[3], e[4]
	op.RR, op.SL, op.TL = e[5], e[6], e[7]
	op.DT2, op.RS = e[8], e[9]
	op.DT = int8(e[10])
	op.D2R = e[11]
}

func decodeOperator(op *Operator, e []byte) {
	decodeOperatorCore(op, e)
	op.SSG, op.DAM, op.DVB, op.EGT = e[12], e[13], e[14], e[15]
	op.KSL, op.SUS, op.VIB, op.WS = e[16], e[17], e[18], e[19]
	op.KSR, op.KVS = e[20], e[21]
}

// decodeOperators reads up to n 24-byte operator records starting at off,
// stopping at the first record that does not fit.
func decodeOperators(fm *FM, b []byte, off, n int, read func(*Operator, []byte)) {
	for i := 0; i < min(n, len(fm.Op)); i++ {
		start := off + i*operatorSize
		if start+operatorSize > len(b) {
			return
		}
		read(&fm.Op[i], b[start:start+operatorSize])
	}
}

func decodeFM(ins *Instrument, b []byte) {
	ins.Type = Type(b[0])
	fm := &ins.FM
	fm.Alg, fm.FB, fm.FMS, fm.AMS = b[1], b[2], b[3], b[4]
	fm.FMS2, fm.AMS2 = b[5], b[6]
	fm.Ops, fm.OPLLPreset = b[7], b[8]
	fm.KickFreq, fm.SnareHatFreq, fm.TomTopFreq = u16(b, 9), u16(b, 11), u16(b, 13)
	fm.FixedDrums = b[15] != 0
	decodeOperators(fm, b, 16, int(fm.Ops), decodeOperator)
}

func decodeOPM(ins *Instrument, b []byte) {
	fm := &ins.FM
	fm.Alg, fm.FB, fm.FMS, fm.AMS, fm.FMS2, fm.AMS2 = b[0], b[1], b[2], b[3], b[4], b[5]
	fm.Ops = 4
	decodeOperators(fm, b, 18, 4, decodeOperatorCore)
}

func decodeOPZ(ins *Instrument, b []byte) {
	decodeOPM(ins, b)
	decodeOperators(&ins.FM, b, 18, 4, func(op *Operator, e []byte) {
		op.WS, op.DVB, op.DAM, op.KSL, op.EGT = e[12], e[13], e[14], e[15], e[16]
	})
}

// decodeOPL reads the two-operator layout: 12 bytes per operator.
func decodeOPL(ins *Instrument, b []byte) {
	ins.Type = Type(b[0])
	fm := &ins.FM
	fm.Alg, fm.FB, fm.FMS, fm.AMS, fm.OPLLPreset = b[1], b[2], b[3], b[4], b[5]
	fm.Ops = 2
	for i := 0; i < 2 && 6+(i+1)*12 <= len(b); i++ {
		e := b[6+i*12:]
		op := &fm.Op[i]
		op.AM, op.AR, op.DR, op.Mult = e[0], e[1], e[2], e[3]
		op.RR, op.SL, op.TL, op.KSL = e[4], e[5], e[6], e[7]
		op.VIB, op.WS, op.KSR, op.SUS = e[8], e[9], e[10], e[11]
	}
}

func decodeOPLL(ins *Instrument, b []byte) {
	if len(b) < 8 {
		return
	}
	fm := &ins.FM
	fm.Alg, fm.FB, fm.FMS, fm.AMS = b[0], b[1], b[2], b[3]
	fm.Ops, fm.OPLLPreset = b[4], b[5]
}

func decodeOPLDrums(ins *Instrument, b []byte) {
	if len(b) < 8 {
		return
	}
	fm := &ins.FM
	fm.Alg, fm.FB, fm.FMS, fm.AMS, fm.Ops = b[0], b[1], b[2], b[3], b[4]
}

const esfmExtSize = 8

func decodeESFM(ins *Instrument, b []byte) {
	ins.ESFM.Noise = b[1]
	if len(b) < 18 {
		return
	}
	fm := &ins.FM
	fm.Alg, fm.FB, fm.FMS, fm.AMS = b[2], b[3], b[4], b[5]
	fm.Ops = 4
	decodeOperators(fm, b, 18, 4, decodeOperator)

	ext := 18 + 4*operatorSize
	if len(b) < ext+4*esfmExtSize {
		return
	}
	for i := range ins.ESFM.Op {
		e := b[ext+i*esfmExtSize:]
		ins.ESFM.Op[i] = ESFMOperator{
			Delay:  e[0],
			OutLvl: e[1],
			ModIn:  e[2],
			Left:   e[3] != 0,
			Right:  e[4] != 0,
			Fixed:  e[5] != 0,
			CT:     int8(e[6]),
			DT:     int8(e[7]),
		}
	}
}
