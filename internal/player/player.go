package player

// Player is the control surface of the external audio player. The
// widget itself is a black box; implementations adapt a real backend
// (see Mpv) and tests substitute a fake.
type Player interface {
	// Load replaces the current media source without starting playback.
	Load(url, title string) error

	// Play starts or resumes playback. A rejection (e.g. the backend
	// refuses to start) is returned as an error; autoplay callers are
	// expected to log and ignore it.
	Play() error

	// Pause pauses playback, keeping the source loaded.
	Pause() error

	// Stop halts playback and unloads the source.
	Stop() error

	// Seek jumps to an absolute position in seconds. Only defined
	// after the metadata-loaded notification for the current source.
	Seek(seconds float64) error

	// CurrentTime reports the playback position in seconds.
	CurrentTime() float64

	// Duration reports the media length in seconds, 0 before metadata.
	Duration() float64

	// OnMetadataLoaded registers a one-shot callback fired when the
	// next loaded source's metadata becomes available.
	OnMetadataLoaded(fn func())

	// OnTimeUpdate registers the callback fired on playback position
	// changes.
	OnTimeUpdate(fn func(seconds float64))
}
