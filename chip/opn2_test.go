package chip

import "testing"

func TestOPN2_InitialState(t *testing.T) {
	y := newOPN2()
	for c := range y.ch {
		if !y.ch[c].panL || !y.ch[c].panR {
			t.Errorf("ch%d: expected both pan bits set", c)
		}
		for o := range y.ch[c].op {
			op := &y.ch[c].op[o]
			if op.egLevel != 0x3FF || op.egState != egRelease {
				t.Errorf("ch%d op%d: expected silent release, got level 0x%03X state %d",
					c, o, op.egLevel, op.egState)
			}
		}
	}
	if y.dacSample != 0x80 {
		t.Errorf("expected DAC at 0x80, got 0x%02X", y.dacSample)
	}
}

func TestOPN2_OperatorRegisterSlotMapping(t *testing.T) {
	tests := []struct {
		addr int
		val  uint8
		ch   int
		op   int
		dt   uint8
		mul  uint8
	}{
		{0x30, 0x35, 0, 0, 3, 5},
		{0x34, 0x27, 0, 2, 2, 7},
		{0x38, 0x13, 0, 1, 1, 3},
		{0x3C, 0x4F, 0, 3, 4, 15},
		{0x130, 0x5A, 3, 0, 5, 10},
		{0x131, 0x61, 4, 0, 6, 1},
		{0x132, 0x72, 5, 0, 7, 2},
	}
	for _, tt := range tests {
		y := newOPN2()
		y.write(tt.addr, tt.val)
		op := &y.ch[tt.ch].op[tt.op]
		if op.dt != tt.dt || op.mul != tt.mul {
			t.Errorf("$%03X: ch%d op%d expected dt=%d mul=%d, got dt=%d mul=%d",
				tt.addr, tt.ch, tt.op, tt.dt, tt.mul, op.dt, op.mul)
		}
	}
}

func TestOPN2_InvalidChannelSlot(t *testing.T) {
	y := newOPN2()
	y.write(0x33, 0xFF)
	y.write(0xA3, 0xFF)
	for c := range y.ch {
		if y.ch[c].fNum != 0 {
			t.Errorf("ch%d: fNum changed by invalid slot", c)
		}
		for o := range y.ch[c].op {
			if y.ch[c].op[o].dt != 0 || y.ch[c].op[o].mul != 0 {
				t.Errorf("ch%d op%d should be unmodified", c, o)
			}
		}
	}
}

func TestOPN2_GlobalRegistersOnlyPartI(t *testing.T) {
	y := newOPN2()
	y.write(0x122, 0x0F)
	y.write(0x12B, 0x80)
	if y.lfoEnable || y.dacEnable {
		t.Error("part II writes to $22/$2B should be ignored")
	}
	y.write(0x22, 0x0F)
	y.write(0x2B, 0x80)
	if !y.lfoEnable || y.lfoFreq != 7 || !y.dacEnable {
		t.Error("part I writes to $22/$2B should apply")
	}
}

func TestOPN2_ChannelRegisters(t *testing.T) {
	y := newOPN2()
	y.write(0xA4, 0x22) // block 4, fNum high 2
	y.write(0xA0, 0x9A)
	if y.ch[0].block != 4 || y.ch[0].fNum != 0x29A {
		t.Errorf("expected block 4 fNum 0x29A, got block %d fNum 0x%03X", y.ch[0].block, y.ch[0].fNum)
	}
	y.write(0x1B2, 0x3D) // ch5: fb 7, alg 5
	if y.ch[5].fb != 7 || y.ch[5].alg != 5 {
		t.Errorf("expected fb 7 alg 5, got fb %d alg %d", y.ch[5].fb, y.ch[5].alg)
	}
	y.write(0xB5, 0x80|0x30|0x05) // ch1: left only, ams 3, fms 5
	c := &y.ch[1]
	if !c.panL || c.panR || c.ams != 3 || c.fms != 5 {
		t.Errorf("unexpected $B4 decode: %+v", *c)
	}
}

func TestOPN2_KeyOnOff(t *testing.T) {
	y := newOPN2()
	y.write(0x28, 0xF0|0x05) // all ops, part II slot 1
	for o, op := range y.ch[4].op {
		if !op.keyOn {
			t.Errorf("ch4 op%d should be keyed on", o)
		}
	}
	y.write(0x28, 0x05)
	for o, op := range y.ch[4].op {
		if op.keyOn || op.egState != egRelease {
			t.Errorf("ch4 op%d should be released", o)
		}
	}
	y.write(0x28, 0xF3) // slot 3 is invalid
	for c := range y.ch {
		if y.ch[c].op[0].keyOn {
			t.Errorf("ch%d keyed by invalid slot", c)
		}
	}
}

func TestOPN2_KeyOnSelectiveOperators(t *testing.T) {
	for i, val := range []uint8{0x10, 0x20, 0x40, 0x80} {
		y := newOPN2()
		y.write(0x28, val)
		for o := range y.ch[0].op {
			if got := y.ch[0].op[o].keyOn; got != (o == i) {
				t.Errorf("$28=0x%02X: op%d keyOn=%v", val, o, got)
			}
		}
	}
}

func TestOPN2_KeyOnResetsPhase(t *testing.T) {
	y := newOPN2()
	y.write(0xA4, 0x22)
	y.write(0xA0, 0x9A)
	y.write(0x28, 0x10)
	var out [6]int16
	for range 100 {
		y.step(&out)
	}
	if y.ch[0].op[0].phase == 0 {
		t.Fatal("phase should have advanced")
	}
	y.write(0x28, 0x00)
	y.write(0x28, 0x10)
	if y.ch[0].op[0].phase != 0 {
		t.Errorf("phase should reset on re-key, got 0x%05X", y.ch[0].op[0].phase)
	}
}

func TestOPN2_KeyCode(t *testing.T) {
	tests := []struct {
		fNum  uint16
		block uint8
		want  uint8
	}{
		{0x000, 0, 0x00},
		{0x780, 4, 0x13},
		{0x400, 3, 0x0E},
		{0x380, 2, 0x09},
		{0x200, 0, 0x00},
	}
	for _, tt := range tests {
		got := computeKeyCode(tt.fNum, tt.block)
		if got != tt.want {
			t.Errorf("computeKeyCode(0x%03X, %d): got 0x%02X, want 0x%02X",
				tt.fNum, tt.block, got, tt.want)
		}
	}
}

func TestOPN2_DAC(t *testing.T) {
	y := newOPN2()
	y.write(0x2B, 0x80)
	y.write(0x2A, 0xC0)
	var out [6]int16
	y.step(&out)
	if want := int16(0x40 << 6); out[5] != want {
		t.Errorf("expected DAC output %d, got %d", want, out[5])
	}
}

func TestOPN2_MutedChannelLeavesMix(t *testing.T) {
	y := newOPN2()
	y.write(0x2B, 0x80)
	y.write(0x2A, 0xFF)
	var out [6]int16
	l, _ := y.step(&out)
	y.muted[5] = true
	lm, _ := y.step(&out)
	if lm >= l {
		t.Errorf("muting the DAC channel should lower the mix: %d -> %d", l, lm)
	}
	if out[5] == 0 {
		t.Error("muted channel should still report its output for the scope")
	}
}

func TestOPN2_ResetKeepsMute(t *testing.T) {
	y := newOPN2()
	y.muted[2] = true
	y.write(0x22, 0x08)
	y.reset()
	if !y.muted[2] {
		t.Error("reset should keep mute state")
	}
	if y.lfoEnable {
		t.Error("reset should clear registers")
	}
}

func TestOPN2_TimerAOverflow(t *testing.T) {
	y := newOPN2()
	y.write(0x24, 0xFF)
	y.write(0x25, 0x03)
	y.write(0x27, 0x05)
	y.stepTimers()
	if !y.timerAOver {
		t.Error("Timer A should have overflowed")
	}
	y.write(0x27, 0x15)
	if y.timerAOver {
		t.Error("Timer A overflow should be cleared after reset")
	}
}

func TestOPN2_TimerBOverflow(t *testing.T) {
	y := newOPN2()
	y.write(0x26, 0xFF)
	y.write(0x27, 0x0A)
	for range 15 {
		y.stepTimers()
	}
	if y.timerBOver {
		t.Fatal("Timer B should not overflow before 16 samples")
	}
	y.stepTimers()
	if !y.timerBOver {
		t.Error("Timer B should overflow after 16 samples")
	}
}

func TestOPN2_TimerNotEnabledNoOverflow(t *testing.T) {
	y := newOPN2()
	y.write(0x24, 0xFF)
	y.write(0x25, 0x03)
	y.write(0x27, 0x01) // load without enable
	y.stepTimers()
	if y.timerAOver {
		t.Error("overflow flag should stay clear when disabled")
	}
}

func TestOPN2_CSMKeysChannel3(t *testing.T) {
	y := newOPN2()
	y.write(0x24, 0xFF)
	y.write(0x25, 0x03)
	y.write(0x27, 0x80|0x01) // CSM + load A
	y.stepTimers()
	for o := range y.ch[2].op {
		if y.ch[2].op[o].egState == egRelease {
			t.Errorf("op%d should be attacking after CSM overflow", o)
		}
	}
	y.write(0x24, 0x00)
	y.write(0x25, 0x00)
	y.stepTimers()
	for o := range y.ch[2].op {
		if y.ch[2].op[o].egState != egRelease {
			t.Errorf("op%d should be released one sample after CSM key-on", o)
		}
	}
}

func TestOPN2_Ch3SpecialMode(t *testing.T) {
	y := newOPN2()
	y.write(0x27, 0x40)
	y.write(0xAD, 0x22) // slot 1 drives S1
	y.write(0xA9, 0x9A)
	if y.ch3Freq[1] != 0x29A || y.ch3Block[1] != 4 {
		t.Fatalf("ch3 slot 1: got fNum 0x%03X block %d", y.ch3Freq[1], y.ch3Block[1])
	}
	want := computePhaseIncrement(0x29A, 4, computeKeyCode(0x29A, 4), 0, 0)
	if got := y.ch[2].op[0].phaseInc; got != want {
		t.Errorf("S1 phaseInc: got %d, want %d", got, want)
	}
}

func TestPhase_MULZeroHalves(t *testing.T) {
	inc0 := computePhaseIncrement(0x400, 4, 0x12, 0, 0)
	inc1 := computePhaseIncrement(0x400, 4, 0x12, 0, 1)
	if inc0 != inc1/2 {
		t.Errorf("MUL=0 should be half of MUL=1: got %d, expected %d", inc0, inc1/2)
	}
}

func TestPhase_MULMultiply(t *testing.T) {
	base := computePhaseIncrement(0x400, 4, 0x12, 0, 1)
	for mul := uint8(2); mul <= 15; mul++ {
		got := computePhaseIncrement(0x400, 4, 0x12, 0, mul)
		want := (base * uint32(mul)) & 0xFFFFF
		if got != want {
			t.Errorf("MUL=%d: got %d, want %d", mul, got, want)
		}
	}
}

func TestPhase_BlockDoubling(t *testing.T) {
	inc4 := computePhaseIncrement(0x400, 4, 0, 0, 1)
	inc5 := computePhaseIncrement(0x400, 5, 0, 0, 1)
	if inc5 != inc4*2 {
		t.Errorf("block+1 should double: block4=%d, block5=%d", inc4, inc5)
	}
}

func TestPhase_Detune(t *testing.T) {
	inc0 := computePhaseIncrement(0x400, 4, 16, 0, 1)
	if inc0 != 0x2000 {
		t.Errorf("DT=0 MUL=1 fNum=0x400 block=4: expected 0x2000, got 0x%X", inc0)
	}
	if inc1 := computePhaseIncrement(0x400, 4, 16, 1, 1); inc1 <= inc0 {
		t.Errorf("DT=1 should add to increment: DT0=%d, DT1=%d", inc0, inc1)
	}
	if inc5 := computePhaseIncrement(0x400, 4, 16, 5, 1); inc5 >= inc0 {
		t.Errorf("DT=5 should subtract from increment: DT0=%d, DT5=%d", inc0, inc5)
	}
}

func TestCh3SlotMapRoundTrip(t *testing.T) {
	for o := range 3 {
		if got := ch3SlotToOp(ch3SlotMap(o)); got != o {
			t.Errorf("op%d: round trip gave %d", o, got)
		}
	}
	if ch3SlotMap(3) != -1 {
		t.Error("S4 should follow the channel frequency")
	}
}

func TestEnvelope_SustainLevel(t *testing.T) {
	tests := []struct {
		d1l  uint8
		want uint16
	}{
		{0, 0},
		{1, 0x20},
		{7, 0xE0},
		{14, 0x1C0},
		{15, 0x3E0},
	}
	for _, tt := range tests {
		got := sustainLevel(tt.d1l)
		if got != tt.want {
			t.Errorf("sustainLevel(%d): got 0x%03X, want 0x%03X", tt.d1l, got, tt.want)
		}
	}
}

func TestEnvelope_TotalLevel(t *testing.T) {
	if got := totalLevel(0, 0); got != 0 {
		t.Errorf("totalLevel(0,0): got %d", got)
	}
	if got := totalLevel(0, 127); got != 0x3F8 {
		t.Errorf("totalLevel(0,127): got 0x%03X", got)
	}
	if got := totalLevel(0x3FF, 127); got != 0x3FF {
		t.Errorf("totalLevel(0x3FF,127): got 0x%03X", got)
	}
}

func TestEnvelope_InstantAttack(t *testing.T) {
	y := newOPN2()
	y.write(0x50, 0xDF) // RS=3, AR=31
	y.write(0x28, 0x10)
	op := &y.ch[0].op[0]
	if op.egLevel != 0 {
		t.Errorf("instant attack: expected egLevel=0, got 0x%03X", op.egLevel)
	}
	if op.egState != egDecay {
		t.Errorf("should be in decay after instant attack, got state %d", op.egState)
	}
}

func TestEnvelope_NonInstantAttackReachesZero(t *testing.T) {
	y := newOPN2()
	y.write(0x50, 0x14) // AR=20
	y.write(0x28, 0x10)
	op := &y.ch[0].op[0]
	var out [6]int16
	for i := 0; i < 200000 && op.egState == egAttack; i++ {
		y.step(&out)
	}
	if op.egLevel != 0 || op.egState == egAttack {
		t.Errorf("attack should reach zero, got level 0x%03X state %d", op.egLevel, op.egState)
	}
}

func TestEnvelope_RateZeroFrozen(t *testing.T) {
	op := &fmOperator{egState: egAttack, egLevel: 0x3FF}
	for counter := uint16(1); counter < 100; counter++ {
		stepEnvelope(op, counter)
	}
	if op.egLevel != 0x3FF || op.egState != egAttack {
		t.Errorf("AR=0 should freeze the envelope, got level 0x%03X state %d", op.egLevel, op.egState)
	}
}

func TestEnvelope_ReleaseToMax(t *testing.T) {
	op := &fmOperator{egState: egRelease, egLevel: 0, rr: 15}
	for counter := uint16(1); counter < 4000; counter++ {
		stepEnvelope(op, counter)
	}
	if op.egLevel != 0x3FF {
		t.Errorf("release should reach 0x3FF, got 0x%03X", op.egLevel)
	}
}

func TestEnvelope_EffectiveRate(t *testing.T) {
	tests := []struct {
		rate    uint8
		rs      uint8
		keyCode uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{31, 0, 0, 62},
		{31, 3, 0x1F, 63},
		{15, 0, 0, 30},
		{15, 2, 8, 34},
	}
	for _, tt := range tests {
		op := &fmOperator{rs: tt.rs, keyCode: tt.keyCode}
		got := effectiveRate(tt.rate, op)
		if got != tt.want {
			t.Errorf("effectiveRate(%d, rs=%d, kc=%d): got %d, want %d",
				tt.rate, tt.rs, tt.keyCode, got, tt.want)
		}
	}
}

func TestOperator_Tables(t *testing.T) {
	for i := 1; i < len(sineTable); i++ {
		if sineTable[i] > sineTable[i-1] {
			t.Fatalf("sineTable not monotonically decreasing at %d", i)
		}
	}
	for i, v := range pow2Table {
		if v < 1024 || v > 2048 {
			t.Fatalf("pow2Table[%d] = %d, expected [1024, 2048]", i, v)
		}
	}
}

func TestOperator_Output(t *testing.T) {
	peak := uint32(0x0FF) << 10
	if out := operatorOutput(peak, 0); out <= 0 {
		t.Errorf("expected positive output at sine peak, got %d", out)
	}
	if out := operatorOutput(peak, 0x3FF); out != 0 {
		t.Errorf("expected 0 at max attenuation, got %d", out)
	}
	pos := operatorOutput(uint32(0x040)<<10, 0)
	neg := operatorOutput(uint32(0x240)<<10, 0)
	if pos != -neg {
		t.Errorf("negative half should mirror the positive: %d vs %d", pos, neg)
	}
}

func TestApplyLadder(t *testing.T) {
	tests := []struct {
		name       string
		sample     int16
		panEnabled bool
		want       int16
	}{
		{"unmuted positive", 1000, true, 1128},
		{"unmuted zero", 0, true, 128},
		{"unmuted negative", -1000, true, -1096},
		{"muted positive", 5000, false, 128},
		{"muted zero", 0, false, 128},
		{"muted negative", -5000, false, -128},
		{"max positive", 8160, true, 8288},
		{"max negative", -8176, true, -8272},
		{"boundary -1", -1, true, -97},
		{"boundary +1", 1, true, 129},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyLadder(tt.sample, tt.panEnabled)
			if got != tt.want {
				t.Errorf("applyLadder(%d, %v) = %d, want %d",
					tt.sample, tt.panEnabled, got, tt.want)
			}
		})
	}
}

func TestIsCarrier(t *testing.T) {
	want := [8]uint8{0x8, 0x8, 0x8, 0x8, 0xA, 0xE, 0xE, 0xF}
	for alg := range uint8(8) {
		var got uint8
		for op := range 4 {
			if isCarrier(alg, op) {
				got |= 1 << op
			}
		}
		if got != want[alg] {
			t.Errorf("alg %d: carriers 0x%X, want 0x%X", alg, got, want[alg])
		}
	}
}
