// Package audio implements source resolution and fragment combining.
//
// The Resolver turns CLI selection intent plus the audio folder's contents
// into exactly one MP3 path, falling back to the Combiner when the folder is
// empty. The Combiner orders the audio-input fragments (two-digit-prefixed
// names first, ascending; the rest in directory order or an injected
// permutation), probes their durations for tracklist offsets, and drives the
// engine's concat capability behind a temp-then-rename write.
package audio
