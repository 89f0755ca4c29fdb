package csv

import (
	"bufio"
	"io"

	"hermannm.dev/wrap"
)

var candidateDelimiters = []rune{',', ';', '\t', '|'}

// DeduceFieldDelimiter reads up to maxRowsToCheck lines of the given file to find the
// most likely field delimiter: the candidate that occurs a consistent number of times
// per line, preferring higher occurrence counts.
func DeduceFieldDelimiter(csvFile io.ReadSeeker, maxRowsToCheck int) (delimiter rune, err error) {
	// Resets reader position in file before returning, so its data can be read subsequently
	defer func() {
		if _, seekErr := csvFile.Seek(0, io.SeekStart); seekErr != nil {
			err = wrap.Error(seekErr, "failed to reset CSV reader after deducing field delimiter")
		}
	}()

	counts := make([]delimiterCount, len(candidateDelimiters))
	for i, candidate := range candidateDelimiters {
		counts[i] = delimiterCount{delimiter: candidate, highest: -1, lowest: -1}
	}

	scanner := bufio.NewScanner(csvFile)
	for i := 0; scanner.Scan() && i < maxRowsToCheck; i++ {
		line := scanner.Text()
		for j := range counts {
			counts[j].countLine(line)
		}
	}

	best := delimiterCount{delimiter: ','}
	for _, count := range counts {
		if count.betterThan(best) {
			best = count
		}
	}

	return best.delimiter, nil
}

type delimiterCount struct {
	delimiter rune
	highest   int
	lowest    int
}

func (count *delimiterCount) countLine(line string) {
	occurrences := 0
	for _, char := range line {
		if char == count.delimiter {
			occurrences++
		}
	}

	if count.highest == -1 || occurrences > count.highest {
		count.highest = occurrences
	}
	if count.lowest == -1 || occurrences < count.lowest {
		count.lowest = occurrences
	}
}

// A delimiter that occurs the same number of times on every line is a stronger
// candidate than one with varying counts, since every CSV row has the same number of
// fields.
func (count delimiterCount) betterThan(other delimiterCount) bool {
	if count.highest <= 0 {
		return false
	}

	consistent := count.highest == count.lowest
	otherConsistent := other.highest == other.lowest

	switch {
	case consistent && otherConsistent:
		return count.highest > other.highest
	case consistent:
		return true
	case otherConsistent:
		return false
	default:
		return count.highest > other.highest &&
			(count.lowest != 0 || other.lowest == 0)
	}
}
