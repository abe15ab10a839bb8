package species

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Profile holds default care needs for species whose name contains Match.
type Profile struct {
	Match         string `json:"match"`
	Family        string `json:"family"`
	WaterDays     int    `json:"water_days"`
	FertilizeDays int    `json:"fertilize_days"`
	MistOK        bool   `json:"mist_ok"`
	Notes         string `json:"notes"`
}

// Arid families want the soil to dry out fully and no misting.
func (p Profile) Arid() bool {
	f := strings.ToLower(p.Family)
	return f == "succulent" || f == "cactus"
}

func (p Profile) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): water about every %d days, fertilize about every %d days", p.Match, p.Family, p.WaterDays, p.FertilizeDays)
	if !p.MistOK {
		b.WriteString(", do not mist")
	}
	if p.Notes != "" {
		b.WriteString(". ")
		b.WriteString(p.Notes)
	}
	return b.String()
}

type Catalog struct {
	profiles []Profile
}

var builtins = []Profile{
	{Match: "cactus", Family: "cactus", WaterDays: 21, FertilizeDays: 60, Notes: "Soak then let dry completely"},
	{Match: "succulent", Family: "succulent", WaterDays: 14, FertilizeDays: 60, Notes: "Soak then let dry completely"},
	{Match: "aloe", Family: "succulent", WaterDays: 14, FertilizeDays: 60},
	{Match: "echeveria", Family: "succulent", WaterDays: 14, FertilizeDays: 60},
	{Match: "haworthia", Family: "succulent", WaterDays: 14, FertilizeDays: 60},
	{Match: "jade", Family: "succulent", WaterDays: 14, FertilizeDays: 60},
	{Match: "snake plant", Family: "succulent", WaterDays: 14, FertilizeDays: 60, Notes: "Tolerates low light"},
	{Match: "sansevieria", Family: "succulent", WaterDays: 14, FertilizeDays: 60},
	{Match: "zz plant", Family: "succulent", WaterDays: 14, FertilizeDays: 60},
	{Match: "pothos", Family: "aroid", WaterDays: 7, FertilizeDays: 30, MistOK: true},
	{Match: "philodendron", Family: "aroid", WaterDays: 7, FertilizeDays: 30, MistOK: true},
	{Match: "monstera", Family: "aroid", WaterDays: 7, FertilizeDays: 30, MistOK: true, Notes: "Likes a moss pole"},
	{Match: "calathea", Family: "prayer plant", WaterDays: 5, FertilizeDays: 30, MistOK: true, Notes: "Use filtered water"},
	{Match: "fern", Family: "fern", WaterDays: 4, FertilizeDays: 30, MistOK: true, Notes: "Keep evenly moist"},
	{Match: "ficus", Family: "ficus", WaterDays: 7, FertilizeDays: 30, Notes: "Dislikes being moved"},
	{Match: "orchid", Family: "orchid", WaterDays: 7, FertilizeDays: 14, MistOK: true, Notes: "Water the bark, not the crown"},
}

func Builtin() *Catalog {
	c := &Catalog{}
	c.add(builtins...)
	return c
}

// Load starts from the built-in table and layers CSV then XLSX rows on top.
// Empty paths are skipped.
func Load(csvPath, xlsxPath string) (*Catalog, error) {
	c := Builtin()
	if csvPath != "" {
		f, err := os.Open(csvPath)
		if err != nil {
			return c, err
		}
		defer f.Close()
		rows, err := readCSV(f)
		if err != nil {
			return c, fmt.Errorf("%s: %w", csvPath, err)
		}
		ps, err := parseRows(rows)
		if err != nil {
			return c, fmt.Errorf("%s: %w", csvPath, err)
		}
		c.add(ps...)
		log.Printf("[species] loaded %d rows from %s", len(ps), csvPath)
	}
	if xlsxPath != "" {
		ps, err := loadXLSX(xlsxPath)
		if err != nil {
			return c, fmt.Errorf("%s: %w", xlsxPath, err)
		}
		c.add(ps...)
		log.Printf("[species] loaded %d rows from %s", len(ps), xlsxPath)
	}
	return c, nil
}

// add replaces profiles with the same Match and keeps longest matches first.
func (c *Catalog) add(ps ...Profile) {
	for _, p := range ps {
		p.Match = strings.ToLower(strings.TrimSpace(p.Match))
		if p.Match == "" {
			continue
		}
		replaced := false
		for i := range c.profiles {
			if c.profiles[i].Match == p.Match {
				c.profiles[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			c.profiles = append(c.profiles, p)
		}
	}
	sort.SliceStable(c.profiles, func(i, j int) bool { return len(c.profiles[i].Match) > len(c.profiles[j].Match) })
}

// Lookup returns the most specific profile whose Match occurs in species.
func (c *Catalog) Lookup(species string) (Profile, bool) {
	s := strings.ToLower(species)
	if c == nil || strings.TrimSpace(s) == "" {
		return Profile{}, false
	}
	for _, p := range c.profiles {
		if strings.Contains(s, p.Match) {
			return p, true
		}
	}
	return Profile{}, false
}

// Arid reports whether species should dry out between waterings.
func (c *Catalog) Arid(species string) bool {
	s := strings.ToLower(species)
	if strings.Contains(s, "succulent") || strings.Contains(s, "cactus") {
		return true
	}
	p, ok := c.Lookup(species)
	return ok && p.Arid()
}

func (c *Catalog) Len() int { return len(c.profiles) }

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func loadXLSX(path string) ([]Profile, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	sheets := x.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := x.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}

// parseRows maps a header row plus data rows to profiles. Header names are
// matched loosely so sheets exported from different tools still load.
func parseRows(rows [][]string) ([]Profile, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty sheet")
	}
	norm := func(s string) string {
		s = strings.TrimSpace(s)
		s = strings.TrimPrefix(s, "\uFEFF") // BOM
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, " ", "")
		s = strings.ReplaceAll(s, "-", "")
		s = strings.ReplaceAll(s, "_", "")
		return s
	}
	hmap := map[string]int{}
	for i, h := range rows[0] {
		hmap[norm(h)] = i
	}
	findAny := func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}

	cMatch := findAny("species", "match", "name")
	cFamily := findAny("family", "group")
	cWater := findAny("water_days", "watering_interval", "waterevery")
	cFert := findAny("fertilize_days", "fertilizing_interval", "fertilizeevery")
	cMist := findAny("mist_ok", "mist", "misting")
	cNotes := findAny("notes", "note", "tips")
	if cMatch == -1 || cWater == -1 {
		return nil, fmt.Errorf("missing required columns, found headers: %v, need at least species and water_days", rows[0])
	}

	var out []Profile
	for _, rec := range rows[1:] {
		get := func(idx int) string {
			if idx < 0 || idx >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[idx])
		}
		water, _ := strconv.Atoi(get(cWater))
		if get(cMatch) == "" || water <= 0 {
			continue
		}
		fert, _ := strconv.Atoi(get(cFert))
		if fert <= 0 {
			fert = 30
		}
		mist := strings.ToLower(get(cMist))
		out = append(out, Profile{
			Match:         get(cMatch),
			Family:        strings.ToLower(get(cFamily)),
			WaterDays:     water,
			FertilizeDays: fert,
			MistOK:        mist == "yes" || mist == "true" || mist == "1",
			Notes:         get(cNotes),
		})
	}
	return out, nil
}
