package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Spok95/telegram-movies-bot/internal/trakt"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Calendar"

// CalendarWorkbook собирает книгу с недельным календарём премьер:
// один лист, строки по эпизодам и фильмам.
func CalendarWorkbook(shows []trakt.CalendarShow, movies []trakt.CalendarMovie) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []string{"التاريخ", "النوع", "العنوان", "الحلقة"}
	rows := make([][]string, 0, len(shows)+len(movies))
	for _, s := range shows {
		aired := s.FirstAired
		if len(aired) > 10 {
			aired = aired[:10]
		}
		rows = append(rows, []string{
			aired, "مسلسل", s.Show.Title,
			fmt.Sprintf("S%dE%d", s.Episode.Season, s.Episode.Number),
		})
	}
	for _, m := range movies {
		rows = append(rows, []string{m.Released, "فيلم", m.Movie.Title, ""})
	}

	// заголовки
	for col, h := range header {
		cell := fmt.Sprintf("%s1", colName(col+1))
		if err := f.SetCellStr(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	// стиль заголовков + автофильтр
	end := colName(len(header)) + "1"
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", end, bold)
	}
	_ = f.AutoFilter(sheetName, "A1:"+end, nil)

	// строки
	for r, row := range rows {
		for c, val := range row {
			cell := fmt.Sprintf("%s%d", colName(c+1), r+2)
			if err := f.SetCellStr(sheetName, cell, val); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	// эвристическая ширина: по длине заголовка и первых строк
	for c := 1; c <= len(header); c++ {
		maxim := len([]rune(header[c-1]))
		for r := 0; r < minim(50, len(rows)); r++ {
			if l := len([]rune(rows[r][c-1])); l > maxim {
				maxim = l
			}
		}
		w := float64(maxim) * 1.1
		if w < 12 {
			w = 12
		}
		if w > 40 {
			w = 40
		}
		_ = f.SetColWidth(sheetName, colName(c), colName(c), w)
	}
	return f, nil
}

// BuildCalendarFilename — человекочитаемое имя файла по дате начала недели.
func BuildCalendarFilename(start string) string {
	return sanitizeFileName(fmt.Sprintf("تقويم الأسبوع — %s.xlsx", strings.TrimSpace(start)))
}

func colName(n int) string {
	// 1 -> A; 27 -> AA
	s := ""
	for n > 0 {
		n--
		s = string(rune('A'+(n%26))) + s
		n /= 26
	}
	return s
}

var invalidFileRe = regexp.MustCompile(`[\\/:*?"<>|]+`)

func sanitizeFileName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return invalidFileRe.ReplaceAllString(s, "_")
}

func minim(a, b int) int {
	if a < b {
		return a
	}
	return b
}
