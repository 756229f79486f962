// Package analysis inspects how the terrain evolves over time.
//
//   - [ElevationTrace]: elevation at one point sampled at a fixed wall-clock step
//   - [PowerSpectrum]: windowed magnitude spectrum of a trace
//   - [DominantFrequency]: strongest non-DC component, in Hz
//   - [MaxStep]: largest jump between consecutive samples
//
// A smooth animation has its energy in the lowest bins and no large steps:
//
//	trace := analysis.ElevationTrace(cfg, 0, 0, 1024, cfg.FrameInterval)
//	hz := analysis.DominantFrequency(trace, cfg.FrameInterval)
package analysis
