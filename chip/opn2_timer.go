package chip

type timer struct {
	period  uint16
	counter uint16
}

// stepTimers runs timer A every sample and timer B every 16 samples. In
// CSM mode a timer A overflow keys channel 3 on for one sample.
func (y *opn2) stepTimers() {
	if y.timerALoad {
		if y.csmKeyOn {
			y.csmRelease()
			y.csmKeyOn = false
		}
		y.timerA.counter++
		if y.timerA.counter >= 1024-y.timerA.period {
			y.timerA.counter = 0
			if y.timerAEnable {
				y.timerAOver = true
			}
			if y.ch3Mode == ch3CSM {
				for i := range y.ch[2].op {
					y.attack(&y.ch[2].op[i])
				}
				y.csmKeyOn = true
			}
		}
	}

	y.timerBSub++
	if y.timerBSub < 16 {
		return
	}
	y.timerBSub = 0
	if y.timerBLoad {
		y.timerB.counter++
		if y.timerB.counter >= 256-y.timerB.period {
			y.timerB.counter = 0
			if y.timerBEnable {
				y.timerBOver = true
			}
		}
	}
}

// csmRelease releases the channel 3 operators not held by register $28.
func (y *opn2) csmRelease() {
	for i := range y.ch[2].op {
		if op := &y.ch[2].op[i]; !op.keyOn {
			release(op)
		}
	}
}

