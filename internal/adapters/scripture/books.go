package scripture

import (
	"strings"

	"lectern/internal/core/textnorm"
)

// Book groups in display order
const (
	GroupLaw        = "law"
	GroupHistory    = "history"
	GroupWisdom     = "wisdom"
	GroupProphets   = "prophets"
	GroupGospels    = "gospels"
	GroupActs       = "acts"
	GroupEpistles   = "epistles"
	GroupRevelation = "revelation"
	GroupOther      = "other"
)

var groupOrder = []string{
	GroupLaw, GroupHistory, GroupWisdom, GroupProphets,
	GroupGospels, GroupActs, GroupEpistles, GroupRevelation, GroupOther,
}

// canonBook is one slot of the canonical order with the ids and names upstream catalogs use for it
type canonBook struct {
	ID    string
	Alt   []string
	Names []string
	Group string
}

var canon = []canonBook{
	{"GEN", []string{"GN"}, []string{"Genesis"}, GroupLaw},
	{"EXO", []string{"EX", "EXOD"}, []string{"Exodus"}, GroupLaw},
	{"LEV", []string{"LV"}, []string{"Leviticus"}, GroupLaw},
	{"NUM", []string{"NM", "NB"}, []string{"Numbers"}, GroupLaw},
	{"DEU", []string{"DT", "DEUT"}, []string{"Deuteronomy"}, GroupLaw},

	{"JOS", []string{"JOSH"}, []string{"Joshua"}, GroupHistory},
	{"JDG", []string{"JUDG"}, []string{"Judges"}, GroupHistory},
	{"RUT", []string{"RTH", "RUTH"}, []string{"Ruth"}, GroupHistory},
	{"1SA", []string{"1SAM", "1SM"}, []string{"1 Samuel", "First Samuel", "1 Kingdoms"}, GroupHistory},
	{"2SA", []string{"2SAM", "2SM"}, []string{"2 Samuel", "Second Samuel", "2 Kingdoms"}, GroupHistory},
	{"1KI", []string{"1KGS", "1KG"}, []string{"1 Kings", "First Kings", "3 Kingdoms"}, GroupHistory},
	{"2KI", []string{"2KGS", "2KG"}, []string{"2 Kings", "Second Kings", "4 Kingdoms"}, GroupHistory},
	{"1CH", []string{"1CHR"}, []string{"1 Chronicles", "First Chronicles"}, GroupHistory},
	{"2CH", []string{"2CHR"}, []string{"2 Chronicles", "Second Chronicles"}, GroupHistory},
	{"EZR", []string{"EZRA"}, []string{"Ezra"}, GroupHistory},
	{"NEH", nil, []string{"Nehemiah"}, GroupHistory},
	{"EST", []string{"ESTH"}, []string{"Esther"}, GroupHistory},

	{"JOB", []string{"JB"}, []string{"Job"}, GroupWisdom},
	{"PSA", []string{"PS", "PSS", "PSALM"}, []string{"Psalms", "Psalm"}, GroupWisdom},
	{"PRO", []string{"PRV", "PROV"}, []string{"Proverbs"}, GroupWisdom},
	{"ECC", []string{"ECCL", "QOH"}, []string{"Ecclesiastes", "Qoheleth"}, GroupWisdom},
	{"SNG", []string{"SOS", "SOL", "CANT"}, []string{"Song of Songs", "Song of Solomon", "Canticles"}, GroupWisdom},

	{"ISA", nil, []string{"Isaiah"}, GroupProphets},
	{"JER", nil, []string{"Jeremiah"}, GroupProphets},
	{"LAM", nil, []string{"Lamentations"}, GroupProphets},
	{"EZK", []string{"EZE", "EZEK"}, []string{"Ezekiel"}, GroupProphets},
	{"DAN", []string{"DN"}, []string{"Daniel"}, GroupProphets},
	{"HOS", nil, []string{"Hosea"}, GroupProphets},
	{"JOL", []string{"JOEL", "JL"}, []string{"Joel"}, GroupProphets},
	{"AMO", []string{"AMOS", "AM"}, []string{"Amos"}, GroupProphets},
	{"OBA", []string{"OBAD", "OB"}, []string{"Obadiah"}, GroupProphets},
	{"JON", []string{"JNH", "JONAH"}, []string{"Jonah"}, GroupProphets},
	{"MIC", []string{"MI"}, []string{"Micah"}, GroupProphets},
	{"NAM", []string{"NAH", "NA"}, []string{"Nahum"}, GroupProphets},
	{"HAB", nil, []string{"Habakkuk"}, GroupProphets},
	{"ZEP", []string{"ZEPH"}, []string{"Zephaniah"}, GroupProphets},
	{"HAG", nil, []string{"Haggai"}, GroupProphets},
	{"ZEC", []string{"ZECH"}, []string{"Zechariah"}, GroupProphets},
	{"MAL", nil, []string{"Malachi"}, GroupProphets},

	{"MAT", []string{"MATT", "MT"}, []string{"Matthew"}, GroupGospels},
	{"MRK", []string{"MAR", "MARK", "MK"}, []string{"Mark"}, GroupGospels},
	{"LUK", []string{"LUKE", "LK"}, []string{"Luke"}, GroupGospels},
	{"JHN", []string{"JOH", "JOHN", "JN"}, []string{"John"}, GroupGospels},

	{"ACT", []string{"ACTS"}, []string{"Acts", "Acts of the Apostles"}, GroupActs},

	{"ROM", nil, []string{"Romans"}, GroupEpistles},
	{"1CO", []string{"1COR"}, []string{"1 Corinthians", "First Corinthians"}, GroupEpistles},
	{"2CO", []string{"2COR"}, []string{"2 Corinthians", "Second Corinthians"}, GroupEpistles},
	{"GAL", nil, []string{"Galatians"}, GroupEpistles},
	{"EPH", nil, []string{"Ephesians"}, GroupEpistles},
	{"PHP", []string{"PHIL", "PHI"}, []string{"Philippians"}, GroupEpistles},
	{"COL", nil, []string{"Colossians"}, GroupEpistles},
	{"1TH", []string{"1THESS", "1THS"}, []string{"1 Thessalonians", "First Thessalonians"}, GroupEpistles},
	{"2TH", []string{"2THESS", "2THS"}, []string{"2 Thessalonians", "Second Thessalonians"}, GroupEpistles},
	{"1TI", []string{"1TIM"}, []string{"1 Timothy", "First Timothy"}, GroupEpistles},
	{"2TI", []string{"2TIM"}, []string{"2 Timothy", "Second Timothy"}, GroupEpistles},
	{"TIT", []string{"TITUS"}, []string{"Titus"}, GroupEpistles},
	{"PHM", []string{"PHLM", "PHILEM"}, []string{"Philemon"}, GroupEpistles},
	{"HEB", nil, []string{"Hebrews"}, GroupEpistles},
	{"JAS", []string{"JAM", "JMS"}, []string{"James"}, GroupEpistles},
	{"1PE", []string{"1PET", "1PT"}, []string{"1 Peter", "First Peter"}, GroupEpistles},
	{"2PE", []string{"2PET", "2PT"}, []string{"2 Peter", "Second Peter"}, GroupEpistles},
	{"1JN", []string{"1JOH", "1JOHN", "1JO"}, []string{"1 John", "First John"}, GroupEpistles},
	{"2JN", []string{"2JOH", "2JOHN", "2JO"}, []string{"2 John", "Second John"}, GroupEpistles},
	{"3JN", []string{"3JOH", "3JOHN", "3JO"}, []string{"3 John", "Third John"}, GroupEpistles},
	{"JUD", []string{"JUDE", "JDE"}, []string{"Jude"}, GroupEpistles},

	{"REV", []string{"RV", "APOC"}, []string{"Revelation", "Apocalypse", "Revelation of John"}, GroupRevelation},
}

// BookGroup is one section of a grouped book list
type BookGroup struct {
	Group string `json:"group"`
	Books []Book `json:"books"`
}

// GroupBooks assigns upstream books to canonical slots and returns non-empty groups in display order
//
// Each canonical slot, in canonical order, takes the first unused upstream book whose id matches
// the slot id, else one of its alternate ids, else whose name matches one of its names.
// Books left unassigned land in the other group in upstream order. This is a greedy match:
// the canonical order decides ties and an early slot can take a book a later slot would also match.
func GroupBooks(books []Book) []BookGroup {
	used := make([]bool, len(books))
	byGroup := map[string][]Book{}

	for _, c := range canon {
		i := match(books, used, c)
		if i < 0 {
			continue
		}
		used[i] = true
		byGroup[c.Group] = append(byGroup[c.Group], books[i])
	}
	for i, b := range books {
		if !used[i] {
			byGroup[GroupOther] = append(byGroup[GroupOther], b)
		}
	}

	out := make([]BookGroup, 0, len(groupOrder))
	for _, g := range groupOrder {
		if len(byGroup[g]) > 0 {
			out = append(out, BookGroup{Group: g, Books: byGroup[g]})
		}
	}
	return out
}

// CanonicalGroup returns the group of a canonical or alternate book id, or other
func CanonicalGroup(id string) string {
	id = strings.ToUpper(strings.TrimSpace(id))
	for _, c := range canon {
		if c.ID == id || contains(c.Alt, id) {
			return c.Group
		}
	}
	return GroupOther
}

func match(books []Book, used []bool, c canonBook) int {
	pass := []func(Book) bool{
		func(b Book) bool { return strings.EqualFold(b.ID, c.ID) },
		func(b Book) bool { return contains(c.Alt, strings.ToUpper(b.ID)) },
		func(b Book) bool {
			for _, n := range []string{b.Name, b.NameLong, b.Abbreviation} {
				if n == "" {
					continue
				}
				fn := textnorm.Fold(n)
				for _, cn := range c.Names {
					if fn == textnorm.Fold(cn) {
						return true
					}
				}
			}
			return false
		},
	}
	for _, p := range pass {
		for i, b := range books {
			if !used[i] && p(b) {
				return i
			}
		}
	}
	return -1
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
