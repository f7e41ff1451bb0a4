// ABOUTME: High-level reverse reverb library API
// ABOUTME: Load a short sample, transform it and play or export the result
// Package reversereverb turns a short audio clip into a reversed reverb
// swell and plays it back from a real-time block callback.
//
// The Processor is the main entry point:
//   - LoadFile / LoadBuffer: load a clip of up to eight seconds
//   - Transform / RequestTransform: reprocess after parameter changes
//   - Trigger / ProcessBlock: one-shot playback with fades and tremolo
//   - Export: write the result to a 24-bit WAV file
//
// Parameter setters never reprocess on their own. Call RequestTransform
// after changing anything that shapes the sound and let the scheduler
// started by Start pick it up.
//
// Example:
//
//	proc := reversereverb.NewProcessor(reversereverb.Config{SampleRate: 48000})
//	proc.Start(ctx)
//	defer proc.Close()
//
//	if err := proc.LoadFile("snare.wav"); err != nil {
//	    return err
//	}
//	out := output.NewOto(nil)
//	if err := out.Open(48000, 2, proc.Source()); err != nil {
//	    return err
//	}
//	proc.Trigger()
package reversereverb
