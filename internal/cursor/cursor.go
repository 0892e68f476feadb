// Package cursor decides which remotely listed matches are new for an account.
package cursor

// SelectNewMatches scans a newest-first page of match ids and returns the ids
// newer than cursor in chronological (oldest-first) order, together with the
// cursor value to persist once they have been processed.
//
// An empty cursor (cold start) or a cursor missing from the page selects the
// whole page. Matches older than the page are never recovered.
func SelectNewMatches(idsNewestFirst []string, cursor string) (newOldestFirst []string, next string) {
	if len(idsNewestFirst) == 0 {
		return []string{}, cursor
	}

	collected := make([]string, 0, len(idsNewestFirst))
	for _, id := range idsNewestFirst {
		if cursor != "" && id == cursor {
			break
		}
		collected = append(collected, id)
	}

	for i, j := 0, len(collected)-1; i < j; i, j = i+1, j-1 {
		collected[i], collected[j] = collected[j], collected[i]
	}
	return collected, idsNewestFirst[0]
}
