//go:build cgo

package main

import "C"

// One export per instrument family; the handle is accepted for ABI
// compatibility, instruments are shared by every instance.

//export furnace_dispatch_set_5e01_instrument
func furnace_dispatch_set_5e01_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "5e01", data, n)
}

//export furnace_dispatch_set_adpcma_instrument
func furnace_dispatch_set_adpcma_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "adpcma", data, n)
}

//export furnace_dispatch_set_adpcmb_instrument
func furnace_dispatch_set_adpcmb_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "adpcmb", data, n)
}

//export furnace_dispatch_set_amiga_instrument
func furnace_dispatch_set_amiga_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "amiga", data, n)
}

//export furnace_dispatch_set_ay_instrument
func furnace_dispatch_set_ay_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "ay", data, n)
}

//export furnace_dispatch_set_ay8930_instrument
func furnace_dispatch_set_ay8930_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "ay8930", data, n)
}

//export furnace_dispatch_set_beeper_instrument
func furnace_dispatch_set_beeper_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "beeper", data, n)
}

//export furnace_dispatch_set_bifurcator_instrument
func furnace_dispatch_set_bifurcator_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "bifurcator", data, n)
}

//export furnace_dispatch_set_c140_instrument
func furnace_dispatch_set_c140_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "c140", data, n)
}

//export furnace_dispatch_set_c219_instrument
func furnace_dispatch_set_c219_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "c219", data, n)
}

//export furnace_dispatch_set_c64_instrument
func furnace_dispatch_set_c64_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "c64", data, n)
}

//export furnace_dispatch_set_dave_instrument
func furnace_dispatch_set_dave_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "dave", data, n)
}

//export furnace_dispatch_set_es5506_instrument
func furnace_dispatch_set_es5506_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "es5506", data, n)
}

//export furnace_dispatch_set_esfm_instrument
func furnace_dispatch_set_esfm_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "esfm", data, n)
}

//export furnace_dispatch_set_fds_instrument
func furnace_dispatch_set_fds_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "fds", data, n)
}

//export furnace_dispatch_set_fm_instrument
func furnace_dispatch_set_fm_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "fm", data, n)
}

//export furnace_dispatch_set_ga20_instrument
func furnace_dispatch_set_ga20_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "ga20", data, n)
}

//export furnace_dispatch_set_gb_instrument
func furnace_dispatch_set_gb_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "gb", data, n)
}

//export furnace_dispatch_set_gba_dma_instrument
func furnace_dispatch_set_gba_dma_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "gbadma", data, n)
}

//export furnace_dispatch_set_gba_minmod_instrument
func furnace_dispatch_set_gba_minmod_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "gbaminmod", data, n)
}

//export furnace_dispatch_set_k007232_instrument
func furnace_dispatch_set_k007232_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "k007232", data, n)
}

//export furnace_dispatch_set_k053260_instrument
func furnace_dispatch_set_k053260_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "k053260", data, n)
}

//export furnace_dispatch_set_mikey_instrument
func furnace_dispatch_set_mikey_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "mikey", data, n)
}

//export furnace_dispatch_set_msm5232_instrument
func furnace_dispatch_set_msm5232_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "msm5232", data, n)
}

//export furnace_dispatch_set_msm6258_instrument
func furnace_dispatch_set_msm6258_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "msm6258", data, n)
}

//export furnace_dispatch_set_msm6295_instrument
func furnace_dispatch_set_msm6295_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "msm6295", data, n)
}

//export furnace_dispatch_set_multipcm_instrument
func furnace_dispatch_set_multipcm_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "multipcm", data, n)
}

//export furnace_dispatch_set_n163_instrument
func furnace_dispatch_set_n163_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "n163", data, n)
}

//export furnace_dispatch_set_namco_instrument
func furnace_dispatch_set_namco_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "namco", data, n)
}

//export furnace_dispatch_set_nds_instrument
func furnace_dispatch_set_nds_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "nds", data, n)
}

//export furnace_dispatch_set_nes_instrument
func furnace_dispatch_set_nes_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "nes", data, n)
}

//export furnace_dispatch_set_opl_instrument
func furnace_dispatch_set_opl_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "opl", data, n)
}

//export furnace_dispatch_set_opl_drums_instrument
func furnace_dispatch_set_opl_drums_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "opldrums", data, n)
}

//export furnace_dispatch_set_opll_instrument
func furnace_dispatch_set_opll_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "opll", data, n)
}

//export furnace_dispatch_set_opm_instrument
func furnace_dispatch_set_opm_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "opm", data, n)
}

//export furnace_dispatch_set_opz_instrument
func furnace_dispatch_set_opz_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "opz", data, n)
}

//export furnace_dispatch_set_pce_instrument
func furnace_dispatch_set_pce_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "pce", data, n)
}

//export furnace_dispatch_set_pet_instrument
func furnace_dispatch_set_pet_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "pet", data, n)
}

//export furnace_dispatch_set_pokemini_instrument
func furnace_dispatch_set_pokemini_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "pokemini", data, n)
}

//export furnace_dispatch_set_pokey_instrument
func furnace_dispatch_set_pokey_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "pokey", data, n)
}

//export furnace_dispatch_set_powernoise_instrument
func furnace_dispatch_set_powernoise_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "powernoise", data, n)
}

//export furnace_dispatch_set_powernoise_slope_instrument
func furnace_dispatch_set_powernoise_slope_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "pnslope", data, n)
}

//export furnace_dispatch_set_pv1000_instrument
func furnace_dispatch_set_pv1000_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "pv1000", data, n)
}

//export furnace_dispatch_set_qsound_instrument
func furnace_dispatch_set_qsound_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "qsound", data, n)
}

//export furnace_dispatch_set_rf5c68_instrument
func furnace_dispatch_set_rf5c68_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "rf5c68", data, n)
}

//export furnace_dispatch_set_saa1099_instrument
func furnace_dispatch_set_saa1099_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "saa1099", data, n)
}

//export furnace_dispatch_set_scc_instrument
func furnace_dispatch_set_scc_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "scc", data, n)
}

//export furnace_dispatch_set_segapcm_instrument
func furnace_dispatch_set_segapcm_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "segapcm", data, n)
}

//export furnace_dispatch_set_sid2_instrument
func furnace_dispatch_set_sid2_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "sid2", data, n)
}

//export furnace_dispatch_set_sid3_instrument
func furnace_dispatch_set_sid3_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "sid3", data, n)
}

//export furnace_dispatch_set_sm8521_instrument
func furnace_dispatch_set_sm8521_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "sm8521", data, n)
}

//export furnace_dispatch_set_snes_instrument
func furnace_dispatch_set_snes_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "snes", data, n)
}

//export furnace_dispatch_set_std_instrument
func furnace_dispatch_set_std_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "std", data, n)
}

//export furnace_dispatch_set_su_instrument
func furnace_dispatch_set_su_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "su", data, n)
}

//export furnace_dispatch_set_supervision_instrument
func furnace_dispatch_set_supervision_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "supervision", data, n)
}

//export furnace_dispatch_set_swan_instrument
func furnace_dispatch_set_swan_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "swan", data, n)
}

//export furnace_dispatch_set_t6w28_instrument
func furnace_dispatch_set_t6w28_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "t6w28", data, n)
}

//export furnace_dispatch_set_ted_instrument
func furnace_dispatch_set_ted_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "ted", data, n)
}

//export furnace_dispatch_set_tia_instrument
func furnace_dispatch_set_tia_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "tia", data, n)
}

//export furnace_dispatch_set_upd1771c_instrument
func furnace_dispatch_set_upd1771c_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "upd1771c", data, n)
}

//export furnace_dispatch_set_vboy_instrument
func furnace_dispatch_set_vboy_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "vboy", data, n)
}

//export furnace_dispatch_set_vera_instrument
func furnace_dispatch_set_vera_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "vera", data, n)
}

//export furnace_dispatch_set_vic_instrument
func furnace_dispatch_set_vic_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "vic", data, n)
}

//export furnace_dispatch_set_vrc6_instrument
func furnace_dispatch_set_vrc6_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "vrc6", data, n)
}

//export furnace_dispatch_set_vrc6_saw_instrument
func furnace_dispatch_set_vrc6_saw_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "vrc6saw", data, n)
}

//export furnace_dispatch_set_wavesynth
func furnace_dispatch_set_wavesynth(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "wavesynth", data, n)
}

//export furnace_dispatch_set_x1_010_instrument
func furnace_dispatch_set_x1_010_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "x1010", data, n)
}

//export furnace_dispatch_set_ymz280b_instrument
func furnace_dispatch_set_ymz280b_instrument(handle C.int, ins C.int, data *C.uchar, n C.int) {
	setInstrument(ins, "ymz280b", data, n)
}
