package effects

// DefaultMasterVolume is the master volume when none is configured
const DefaultMasterVolume = 0.8
