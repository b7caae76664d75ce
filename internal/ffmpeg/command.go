package ffmpeg

// Binary is the ffmpeg executable name.
const Binary = "ffmpeg"

// ExtractAudioArgs returns arguments that stream-copy the audio of input into
// an Ogg container at output, overwriting it.
func ExtractAudioArgs(input, output string) []string {
	return []string{
		"-v", "quiet",
		"-i", input,
		"-vn",
		"-acodec", "copy",
		"-f", "ogg",
		"-y",
		output,
	}
}

// LoudnessArgs returns arguments for a measurement-only pass of the given
// audio filter chain. Output is discarded through the null muxer.
func LoudnessArgs(input string, chain *AudioFilterChain) []string {
	args := []string{
		"-i", input,
		"-hide_banner",
		"-nostats",
		"-vn",
		"-sn",
		"-dn",
	}
	if !chain.IsEmpty() {
		args = append(args, "-af", chain.Build())
	}
	return append(args, "-f", "null", "-")
}
