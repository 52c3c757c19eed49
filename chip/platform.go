package chip

import "fmt"

// Platform identifies a sound chip configuration. The numbering is part of
// the host ABI and must not be reordered.
type Platform int

const (
	PlatformNull Platform = iota
	PlatformYMU759
	PlatformGenesis
	PlatformGenesisExt
	PlatformSMS
	PlatformSMSOPLL
	PlatformGB
	PlatformPCE
	PlatformNES
	PlatformNESVRC7
	PlatformNESFDS
	PlatformC64SID6581
	PlatformC64SID8580
	PlatformArcade
	PlatformMSX2
	PlatformYM2610Crap
	PlatformYM2610CrapExt
	PlatformAY8910
	PlatformAmiga
	PlatformYM2151
	PlatformYM2612
	PlatformTIA
	PlatformSAA1099
	PlatformAY8930
	PlatformVIC20
	PlatformPET
	PlatformSNES
	PlatformVRC6
	PlatformOPLL
	PlatformFDS
	PlatformMMC5
	PlatformN163
	PlatformYM2203
	PlatformYM2203Ext
	PlatformYM2608
	PlatformYM2608Ext
	PlatformOPL
	PlatformOPL2
	PlatformOPL3
	PlatformMultiPCM
	PlatformPCSpeaker
	PlatformPOKEY
	PlatformRF5C68
	PlatformSwan
	PlatformOPZ
	PlatformPokeMini
	PlatformSegaPCM
	PlatformVBoy
	PlatformVRC7
	PlatformYM2610B
	PlatformSFXBeeper
	PlatformSFXBeeperQuadTone
	PlatformYM2612Ext
	PlatformSCC
	PlatformOPLDrums
	PlatformOPL2Drums
	PlatformOPL3Drums
	PlatformYM2610Full
	PlatformYM2610FullExt
	PlatformOPLLDrums
	PlatformLynx
	PlatformQSound
	PlatformVERA
	PlatformYM2610BExt
	PlatformSegaPCMCompat
	PlatformX1010
	PlatformBubsysWSG
	PlatformOPL4
	PlatformOPL4Drums
	PlatformES5506
	PlatformY8950
	PlatformY8950Drums
	PlatformSCCPlus
	PlatformSoundUnit
	PlatformMSM6295
	PlatformMSM6258
	PlatformYMZ280B
	PlatformNamco
	PlatformNamco15XX
	PlatformNamcoCUS30
	PlatformYM2612DualPCM
	PlatformYM2612DualPCMExt
	PlatformMSM5232
	PlatformT6W28
	PlatformK007232
	PlatformGA20
	PlatformPCMDAC
	PlatformPong
	PlatformDummy
	PlatformYM2612CSM
	PlatformYM2610CSM
	PlatformYM2610BCSM
	PlatformYM2203CSM
	PlatformYM2608CSM
	PlatformSM8521
	PlatformPV1000
	PlatformK053260
	PlatformTED
	PlatformC140
	PlatformC219
	PlatformESFM
	PlatformPowerNoise
	PlatformDave
	PlatformNDS
	PlatformGBADMA
	PlatformGBAMinMod
	PlatformFamicom5E01
	PlatformBifurcator
	PlatformSID2
	PlatformSupervision
	PlatformUPD1771C
	PlatformSID3
	PlatformC64PCM

	numPlatforms
)

var platformNames = [numPlatforms]string{
	PlatformNull:              "null",
	PlatformYMU759:            "ymu759",
	PlatformGenesis:           "genesis",
	PlatformGenesisExt:        "genesis_ext",
	PlatformSMS:               "sms",
	PlatformSMSOPLL:           "sms_opll",
	PlatformGB:                "gb",
	PlatformPCE:               "pce",
	PlatformNES:               "nes",
	PlatformNESVRC7:           "nes_vrc7",
	PlatformNESFDS:            "nes_fds",
	PlatformC64SID6581:        "c64_6581",
	PlatformC64SID8580:        "c64_8580",
	PlatformArcade:            "arcade",
	PlatformMSX2:              "msx2",
	PlatformYM2610Crap:        "ym2610_crap",
	PlatformYM2610CrapExt:     "ym2610_crap_ext",
	PlatformAY8910:            "ay8910",
	PlatformAmiga:             "amiga",
	PlatformYM2151:            "ym2151",
	PlatformYM2612:            "ym2612",
	PlatformTIA:               "tia",
	PlatformSAA1099:           "saa1099",
	PlatformAY8930:            "ay8930",
	PlatformVIC20:             "vic20",
	PlatformPET:               "pet",
	PlatformSNES:              "snes",
	PlatformVRC6:              "vrc6",
	PlatformOPLL:              "opll",
	PlatformFDS:               "fds",
	PlatformMMC5:              "mmc5",
	PlatformN163:              "n163",
	PlatformYM2203:            "ym2203",
	PlatformYM2203Ext:         "ym2203_ext",
	PlatformYM2608:            "ym2608",
	PlatformYM2608Ext:         "ym2608_ext",
	PlatformOPL:               "opl",
	PlatformOPL2:              "opl2",
	PlatformOPL3:              "opl3",
	PlatformMultiPCM:          "multipcm",
	PlatformPCSpeaker:         "pcspkr",
	PlatformPOKEY:             "pokey",
	PlatformRF5C68:            "rf5c68",
	PlatformSwan:              "swan",
	PlatformOPZ:               "opz",
	PlatformPokeMini:          "pokemini",
	PlatformSegaPCM:           "segapcm",
	PlatformVBoy:              "vboy",
	PlatformVRC7:              "vrc7",
	PlatformYM2610B:           "ym2610b",
	PlatformSFXBeeper:         "sfx_beeper",
	PlatformSFXBeeperQuadTone: "sfx_beeper_quadtone",
	PlatformYM2612Ext:         "ym2612_ext",
	PlatformSCC:               "scc",
	PlatformOPLDrums:          "opl_drums",
	PlatformOPL2Drums:         "opl2_drums",
	PlatformOPL3Drums:         "opl3_drums",
	PlatformYM2610Full:        "ym2610_full",
	PlatformYM2610FullExt:     "ym2610_full_ext",
	PlatformOPLLDrums:         "opll_drums",
	PlatformLynx:              "lynx",
	PlatformQSound:            "qsound",
	PlatformVERA:              "vera",
	PlatformYM2610BExt:        "ym2610b_ext",
	PlatformSegaPCMCompat:     "segapcm_compat",
	PlatformX1010:             "x1_010",
	PlatformBubsysWSG:         "bubsys_wsg",
	PlatformOPL4:              "opl4",
	PlatformOPL4Drums:         "opl4_drums",
	PlatformES5506:            "es5506",
	PlatformY8950:             "y8950",
	PlatformY8950Drums:        "y8950_drums",
	PlatformSCCPlus:           "scc_plus",
	PlatformSoundUnit:         "sound_unit",
	PlatformMSM6295:           "msm6295",
	PlatformMSM6258:           "msm6258",
	PlatformYMZ280B:           "ymz280b",
	PlatformNamco:             "namco",
	PlatformNamco15XX:         "namco_15xx",
	PlatformNamcoCUS30:        "namco_cus30",
	PlatformYM2612DualPCM:     "ym2612_dualpcm",
	PlatformYM2612DualPCMExt:  "ym2612_dualpcm_ext",
	PlatformMSM5232:           "msm5232",
	PlatformT6W28:             "t6w28",
	PlatformK007232:           "k007232",
	PlatformGA20:              "ga20",
	PlatformPCMDAC:            "pcm_dac",
	PlatformPong:              "pong",
	PlatformDummy:             "dummy",
	PlatformYM2612CSM:         "ym2612_csm",
	PlatformYM2610CSM:         "ym2610_csm",
	PlatformYM2610BCSM:        "ym2610b_csm",
	PlatformYM2203CSM:         "ym2203_csm",
	PlatformYM2608CSM:         "ym2608_csm",
	PlatformSM8521:            "sm8521",
	PlatformPV1000:            "pv1000",
	PlatformK053260:           "k053260",
	PlatformTED:               "ted",
	PlatformC140:              "c140",
	PlatformC219:              "c219",
	PlatformESFM:              "esfm",
	PlatformPowerNoise:        "powernoise",
	PlatformDave:              "dave",
	PlatformNDS:               "nds",
	PlatformGBADMA:            "gba_dma",
	PlatformGBAMinMod:         "gba_minmod",
	PlatformFamicom5E01:       "5e01",
	PlatformBifurcator:        "bifurcator",
	PlatformSID2:              "sid2",
	PlatformSupervision:       "supervision",
	PlatformUPD1771C:          "upd1771c",
	PlatformSID3:              "sid3",
	PlatformC64PCM:            "c64_pcm",
}

// channelCounts is the documented channel layout of every platform. Zero
// marks a platform without a documented layout.
var channelCounts = [numPlatforms]int{
	PlatformGenesis:           10,
	PlatformGenesisExt:        13,
	PlatformSMS:               4,
	PlatformGB:                4,
	PlatformPCE:               6,
	PlatformNES:               5,
	PlatformC64SID6581:        3,
	PlatformC64SID8580:        3,
	PlatformArcade:            8,
	PlatformAY8910:            3,
	PlatformAmiga:             4,
	PlatformYM2151:            8,
	PlatformYM2612:            10,
	PlatformTIA:               2,
	PlatformSAA1099:           6,
	PlatformAY8930:            3,
	PlatformVIC20:             4,
	PlatformPET:               1,
	PlatformSNES:              8,
	PlatformVRC6:              3,
	PlatformOPLL:              9,
	PlatformFDS:               1,
	PlatformMMC5:              3,
	PlatformN163:              8,
	PlatformYM2203:            6,
	PlatformYM2203Ext:         9,
	PlatformYM2608:            16,
	PlatformYM2608Ext:         19,
	PlatformOPL:               9,
	PlatformOPL2:              9,
	PlatformOPL3:              18,
	PlatformMultiPCM:          28,
	PlatformPCSpeaker:         1,
	PlatformPOKEY:             4,
	PlatformRF5C68:            8,
	PlatformSwan:              4,
	PlatformOPZ:               8,
	PlatformPokeMini:          1,
	PlatformSegaPCM:           16,
	PlatformVBoy:              6,
	PlatformVRC7:              6,
	PlatformYM2610B:           16,
	PlatformSFXBeeper:         6,
	PlatformSFXBeeperQuadTone: 5,
	PlatformYM2612Ext:         13,
	PlatformSCC:               5,
	PlatformOPLDrums:          11,
	PlatformOPL2Drums:         11,
	PlatformOPL3Drums:         20,
	PlatformYM2610Full:        14,
	PlatformYM2610FullExt:     17,
	PlatformOPLLDrums:         11,
	PlatformLynx:              4,
	PlatformQSound:            19,
	PlatformVERA:              17,
	PlatformYM2610BExt:        19,
	PlatformSegaPCMCompat:     16,
	PlatformX1010:             16,
	PlatformBubsysWSG:         2,
	PlatformOPL4:              42,
	PlatformOPL4Drums:         44,
	PlatformES5506:            32,
	PlatformY8950:             10,
	PlatformY8950Drums:        12,
	PlatformSCCPlus:           5,
	PlatformSoundUnit:         8,
	PlatformMSM6295:           4,
	PlatformMSM6258:           1,
	PlatformYMZ280B:           8,
	PlatformNamco:             3,
	PlatformNamco15XX:         8,
	PlatformNamcoCUS30:        8,
	PlatformYM2612DualPCM:     10,
	PlatformYM2612DualPCMExt:  13,
	PlatformMSM5232:           8,
	PlatformT6W28:             4,
	PlatformK007232:           2,
	PlatformGA20:              4,
	PlatformPCMDAC:            1,
	PlatformPong:              1,
	PlatformDummy:             1,
	PlatformYM2612CSM:         10,
	PlatformYM2610CSM:         14,
	PlatformYM2610BCSM:        16,
	PlatformYM2203CSM:         6,
	PlatformYM2608CSM:         16,
	PlatformSM8521:            3,
	PlatformPV1000:            3,
	PlatformK053260:           4,
	PlatformTED:               2,
	PlatformC140:              24,
	PlatformC219:              16,
	PlatformESFM:              18,
	PlatformPowerNoise:        4,
	PlatformDave:              4,
	PlatformNDS:               16,
	PlatformGBADMA:            2,
	PlatformGBAMinMod:         16,
	PlatformFamicom5E01:       5,
	PlatformBifurcator:        4,
	PlatformSID2:              3,
	PlatformSupervision:       4,
	PlatformUPD1771C:          4,
	PlatformSID3:              4,
	PlatformC64PCM:            3,
}

// ChannelCount returns the number of channels of p, or 0 for an unknown
// platform.
func ChannelCount(p Platform) int {
	if p < 0 || p >= numPlatforms {
		return 0
	}
	return channelCounts[p]
}

// PlatformByName looks a platform up by its lower-case name.
func PlatformByName(name string) (Platform, bool) {
	for p, n := range platformNames {
		if n == name {
			return Platform(p), true
		}
	}
	return 0, false
}

func (p Platform) String() string {
	if p < 0 || p >= numPlatforms {
		return fmt.Sprintf("platform(%d)", int(p))
	}
	return platformNames[p]
}

// Platforms returns every platform keyed by its name.
func Platforms() map[string]Platform {
	m := make(map[string]Platform, numPlatforms)
	for p, n := range platformNames {
		if n != "" {
			m[n] = Platform(p)
		}
	}
	return m
}
