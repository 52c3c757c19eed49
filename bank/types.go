package bank

// Type identifies the instrument model an instrument was authored for.
// Values match the instrument type byte carried in upload blobs.
type Type uint8

const (
	TypeSTD Type = iota
	TypeFM
	TypeGB
	TypeC64
	TypeAmiga
	TypePCE
	TypeAY
	TypeAY8930
	TypeTIA
	TypeSAA1099
	TypeVIC
	TypePET
	TypeVRC6
	TypeOPLL
	TypeOPL
	TypeFDS
	TypeVBoy
	TypeN163
	TypeSCC
	TypeOPZ
	TypePOKEY
	TypeBeeper
	TypeSwan
	TypeMikey
	TypeVERA
	TypeX1010
	TypeVRC6Saw
	TypeES5506
	TypeMultiPCM
	TypeSNES
	TypeSU
	TypeNamco
	TypeOPLDrums
	TypeOPM
	TypeNES
	TypeMSM6258
	TypeMSM6295
	TypeADPCMA
	TypeADPCMB
	TypeSegaPCM
	TypeQSound
	TypeYMZ280B
	TypeRF5C68
	TypeMSM5232
	TypeT6W28
	TypeK007232
	TypeGA20
	TypePokeMini
	TypeSM8521
	TypePV1000
	TypeK053260
	_
	TypeTED
	TypeC140
	TypeC219
	TypeESFM
	TypePowerNoise
	TypePowerNoiseSlope
	TypeDave
	TypeNDS
	TypeGBADMA
	TypeGBAMinMod
	TypeBifurcator
	TypeSID2
	TypeSupervision
	TypeUPD1771C
	TypeSID3
)
