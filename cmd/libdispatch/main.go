//go:build cgo

// Command libdispatch exposes the dispatch registry as a flat C ABI:
//
//	go build -buildmode=c-shared -o libdispatch.so ./cmd/libdispatch
//
// Every export is a thin wrapper over one registry operation. Handles are
// plain ints; 0 is never a valid handle.
package main

/*
#include <stdint.h>
*/
import "C"

import (
	"log"
	"unsafe"

	"github.com/user-none/emdispatch/chip"
	"github.com/user-none/emdispatch/dispatch"
)

// reg is the process-wide registry behind the ABI. Callers drive it from a
// single thread.
var reg = dispatch.New(dispatch.Options{})

func bytesOf(data *C.uchar, n C.int) []byte {
	if data == nil || n <= 0 {
		return nil
	}
	return C.GoBytes(unsafe.Pointer(data), n)
}

func floatsOf(p *C.float, n C.int) []float32 {
	if p == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(p)), int(n))
}

func setInstrument(ins C.int, family string, data *C.uchar, n C.int) {
	if err := reg.SetInstrument(int(ins), family, bytesOf(data, n)); err != nil {
		log.Printf("Warning: %v", err)
	}
}

//export furnace_dispatch_create
func furnace_dispatch_create(platform C.int, sampleRate C.int) C.int {
	return C.int(reg.Create(chip.Platform(platform), int(sampleRate)))
}

//export furnace_dispatch_destroy
func furnace_dispatch_destroy(handle C.int) {
	reg.Destroy(int(handle))
}

//export furnace_dispatch_reset
func furnace_dispatch_reset(handle C.int) {
	reg.Reset(int(handle))
}

//export furnace_dispatch_cmd
func furnace_dispatch_cmd(handle, cmd, ch, v1, v2 C.int) C.int {
	return C.int(reg.Dispatch(int(handle), chip.Command(cmd), int(ch), int(v1), int(v2)))
}

//export furnace_dispatch_tick
func furnace_dispatch_tick(handle C.int) {
	reg.Tick(int(handle))
}

//export furnace_dispatch_render
func furnace_dispatch_render(handle C.int, outL, outR *C.float, n C.int) {
	l, r := floatsOf(outL, n), floatsOf(outR, n)
	if l == nil || r == nil {
		return
	}
	reg.Render(int(handle), l, r, int(n))
}

// Samples are decoded when uploaded, so there is nothing left to render.
//
//export furnace_dispatch_render_samples
func furnace_dispatch_render_samples(handle C.int) {}

//export furnace_dispatch_get_num_channels
func furnace_dispatch_get_num_channels(handle C.int) C.int {
	return C.int(reg.NumChannels(int(handle)))
}

//export furnace_dispatch_mute
func furnace_dispatch_mute(handle, ch, mute C.int) {
	reg.Mute(int(handle), int(ch), mute != 0)
}

//export furnace_dispatch_poke
func furnace_dispatch_poke(handle, addr, val C.int) {
	reg.Poke(int(handle), int(addr), int(val))
}

//export furnace_dispatch_get_osc_needle
func furnace_dispatch_get_osc_needle(handle, ch C.int) C.int {
	return C.int(reg.OscNeedle(int(handle), int(ch)))
}

//export furnace_dispatch_get_osc_data
func furnace_dispatch_get_osc_data(handle, ch C.int, out *C.short, maxSamples C.int) C.int {
	if out == nil || maxSamples <= 0 {
		return 0
	}
	dst := unsafe.Slice((*int16)(unsafe.Pointer(out)), int(maxSamples))
	return C.int(reg.OscData(int(handle), int(ch), dst))
}

//export furnace_dispatch_set_tick_rate
func furnace_dispatch_set_tick_rate(handle C.int, hz C.float) {
	reg.SetTickRate(int(handle), float64(hz))
}

//export furnace_dispatch_set_tuning
func furnace_dispatch_set_tuning(handle C.int, a4 C.float) {
	reg.SetTuning(int(handle), float64(a4))
}

//export furnace_dispatch_set_compat_flags
func furnace_dispatch_set_compat_flags(handle C.int, data *C.uchar, n C.int) {
	reg.SetCompatFlags(int(handle), bytesOf(data, n))
}

//export furnace_dispatch_set_compat_flag
func furnace_dispatch_set_compat_flag(handle, idx, val C.int) {
	reg.SetCompatFlag(int(handle), int(idx), int(val))
}

//export furnace_dispatch_reset_compat_flags
func furnace_dispatch_reset_compat_flags(handle C.int) {
	reg.ResetCompatFlags(int(handle))
}

//export furnace_dispatch_force_ins
func furnace_dispatch_force_ins(handle, ch C.int) {
	reg.ForceIns(int(handle))
}

//export furnace_dispatch_set_macros_enabled
func furnace_dispatch_set_macros_enabled(handle, enabled C.int) {
	reg.SetMacrosEnabled(int(handle), enabled != 0)
}

//export furnace_dispatch_release_macros
func furnace_dispatch_release_macros(handle, ch C.int) {
	reg.ReleaseMacros(int(handle), int(ch))
}

//export furnace_dispatch_set_macro
func furnace_dispatch_set_macro(handle, ins C.int, data *C.uchar, n C.int) {
	// SetMacro logs unknown kinds itself; short blobs are dropped quietly.
	_ = reg.SetMacro(int(ins), bytesOf(data, n))
}

//export furnace_dispatch_clear_macros
func furnace_dispatch_clear_macros(handle, ins C.int) {
	reg.ClearMacros(int(ins))
}

//export furnace_dispatch_set_wavetable
func furnace_dispatch_set_wavetable(handle, idx C.int, data *C.uchar, n C.int) {
	if err := reg.SetWavetable(int(idx), bytesOf(data, n)); err != nil {
		log.Printf("Warning: %v", err)
	}
}

//export furnace_dispatch_set_sample
func furnace_dispatch_set_sample(handle, idx C.int, data *C.uchar, n C.int) {
	if err := reg.SetSample(int(idx), bytesOf(data, n)); err != nil {
		log.Printf("Warning: %v", err)
	}
}

//export furnace_dispatch_set_instrument_full
func furnace_dispatch_set_instrument_full(handle, ins C.int, data *C.uchar, n C.int) {
	if err := reg.SetFullInstrument(int(ins), bytesOf(data, n)); err != nil {
		log.Printf("Warning: %v", err)
	}
}

//export furnace_dispatch_clear_all
func furnace_dispatch_clear_all() {
	reg.ClearAll()
}

func main() {}
