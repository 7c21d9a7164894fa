package scrapers

import (
	"strconv"
	"strings"

	"racetally/domain/race"
)

// resultsPage is the parsed form of a rendered results page.
type resultsPage struct {
	EventName string
	Date      string
	Distance  string
	Location  string
	Metadata  map[string]string
	Results   []race.Result
}

// detailKeys maps recognized "Key: Value" page lines onto event fields.
var detailKeys = map[string]string{
	"date":     "date",
	"distance": "distance",
	"location": "location",
	"venue":    "location",
}

// parseResultsPage extracts the event heading, detail lines, and the first
// result table from rendered markdown.
func parseResultsPage(markdown string) resultsPage {
	page := resultsPage{Metadata: map[string]string{}}
	lines := strings.Split(markdown, "\n")

	var table []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if page.EventName == "" && strings.HasPrefix(trimmed, "# ") {
			page.EventName = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			continue
		}

		if strings.HasPrefix(trimmed, "|") {
			table = append(table, trimmed)
			continue
		}
		if len(table) > 0 {
			// First table ended; ignore any later ones.
			break
		}

		if key, value, ok := parseDetailLine(trimmed); ok {
			switch detailKeys[key] {
			case "date":
				page.Date = value
			case "distance":
				page.Distance = value
			case "location":
				page.Location = value
			default:
				page.Metadata[key] = value
			}
		}
	}

	page.Results = parseResultsTable(table)
	return page
}

// parseDetailLine reads "Key: Value" and "**Key:** Value" page lines.
func parseDetailLine(line string) (key, value string, ok bool) {
	cleaned := strings.ReplaceAll(line, "*", "")
	parts := strings.SplitN(cleaned, ":", 2)
	if len(parts) != 2 {
		return "", "", false
	}

	key = strings.ToLower(strings.TrimSpace(parts[0]))
	value = strings.TrimSpace(parts[1])
	if key == "" || value == "" || len(key) > 24 {
		// Long keys are prose sentences that happen to contain a colon.
		return "", "", false
	}
	return key, value, true
}

// columnRole classifies a table header cell.
type columnRole int

const (
	colSkip columnRole = iota
	colPosition
	colBib
	colName
	colClub
	colCategory
	colTime
	colSplit
)

// classifyColumn maps a header cell onto a row field.
func classifyColumn(header string) columnRole {
	normalized := strings.ToLower(strings.TrimSpace(header))
	switch normalized {
	case "pos", "pos.", "position", "place", "#", "rank":
		return colPosition
	case "bib", "bib no", "no", "no.", "number":
		return colBib
	case "name", "athlete", "runner", "participant":
		return colName
	case "club", "team":
		return colClub
	case "cat", "cat.", "category", "division", "grade":
		return colCategory
	case "time", "finish", "finish time", "gun time", "net time", "result":
		return colTime
	case "":
		return colSkip
	default:
		// Unrecognized columns are kept as named splits.
		return colSplit
	}
}

// parseResultsTable turns markdown table lines into result rows. The first
// line is the header, the second the separator; rows that yield no athlete
// name are dropped.
func parseResultsTable(table []string) []race.Result {
	if len(table) < 3 {
		return nil
	}

	headers := splitTableRow(table[0])
	roles := make([]columnRole, len(headers))
	for i, header := range headers {
		roles[i] = classifyColumn(header)
	}

	var results []race.Result
	for _, line := range table[2:] {
		cells := splitTableRow(line)
		if len(cells) == 0 {
			continue
		}

		var row race.Result
		for i, cell := range cells {
			if i >= len(roles) {
				break
			}

			value := strings.TrimSpace(cell)
			switch roles[i] {
			case colPosition:
				row.Position, _ = strconv.Atoi(value)
			case colBib:
				row.BibNumber = value
			case colName:
				row.AthleteName = value
			case colClub:
				row.Club = value
			case colCategory:
				row.Category = value
			case colTime:
				row.FinishTime = value
				row.FinishSeconds, _ = race.ParseElapsed(value)
			case colSplit:
				if value != "" {
					if row.Splits == nil {
						row.Splits = map[string]string{}
					}
					row.Splits[strings.TrimSpace(headers[i])] = value
				}
			}
		}

		if row.AthleteName != "" {
			results = append(results, row)
		}
	}

	return results
}

// splitTableRow splits "| a | b |" into its trimmed cells.
func splitTableRow(line string) []string {
	trimmed := strings.Trim(strings.TrimSpace(line), "|")
	if trimmed == "" {
		return nil
	}

	cells := strings.Split(trimmed, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}
