package analysis

import (
	"sort"
)

// Window is one group of sample indices sharing an aligned time window
type Window struct {
	Indices   []int
	StartTime int64
	EndTime   int64
}

// TimeSeriesResampler handles time-based resampling calculations.
type TimeSeriesResampler struct{}

// -----------------------------------------------------------------------------

// ResampleIndices groups ascending unix-second timestamps into windowSeconds wide
// windows aligned on multiples of windowSeconds. Empty windows are omitted.
func (r *TimeSeriesResampler) ResampleIndices(timestamps []int64, windowSeconds int64) []Window {
	if len(timestamps) == 0 || windowSeconds <= 0 {
		return []Window{}
	}

	var results []Window
	for idx := 0; idx < len(timestamps); {
		start, end := CalculateWindowBoundaries(timestamps[idx], windowSeconds)

		// first index at or beyond the window end
		endIdx := idx + sort.Search(len(timestamps)-idx, func(j int) bool {
			return timestamps[idx+j] >= end
		})

		indices := make([]int, endIdx-idx)
		for i := range indices {
			indices[i] = idx + i
		}
		results = append(results, Window{Indices: indices, StartTime: start, EndTime: end})
		idx = endIdx
	}

	return results
}

// -----------------------------------------------------------------------------

// ResampleMultiData applies the same windows to several aligned data arrays
func (r *TimeSeriesResampler) ResampleMultiData(
	timestamps []int64,
	windowSeconds int64,
	dataArrays ...[]float64,
) []struct {
	DataArrays [][]float64
	StartTime  int64
	EndTime    int64
} {
	windows := r.ResampleIndices(timestamps, windowSeconds)

	var results []struct {
		DataArrays [][]float64
		StartTime  int64
		EndTime    int64
	}

	for _, w := range windows {
		windowData := make([][]float64, len(dataArrays))

		for arrIdx, dataArray := range dataArrays {
			windowSlice := make([]float64, len(w.Indices))
			for i, idx := range w.Indices {
				if idx < len(dataArray) {
					windowSlice[i] = dataArray[idx]
				}
			}
			windowData[arrIdx] = windowSlice
		}

		results = append(results, struct {
			DataArrays [][]float64
			StartTime  int64
			EndTime    int64
		}{
			DataArrays: windowData,
			StartTime:  w.StartTime,
			EndTime:    w.EndTime,
		})
	}

	return results
}

// -----------------------------------------------------------------------------

// CalculateWindowBoundaries returns the aligned window holding ts
func CalculateWindowBoundaries(ts int64, window int64) (int64, int64) {
	start := ts - (ts % window)
	if ts < 0 && ts%window != 0 {
		start -= window
	}
	return start, start + window
}
