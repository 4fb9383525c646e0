package uci

import (
	"strconv"
	"strings"

	"github.com/arbiterchess/arbiter/internal/config"
)

// uciOptionType is the UCI wire vocabulary for an option's widget kind.
type uciOptionType int

const (
	Check uciOptionType = iota
	Spin
	Button
	String
)

// optionHandler is called after an option's CurrentValue has been updated
// by the "setoption" command.
type optionHandler func(*UciHandler, *uciOption)

// uciOption mirrors one entry of the "option name ... type ..." handshake.
type uciOption struct {
	NameID       string
	HandlerFunc  optionHandler
	OptionType   uciOptionType
	DefaultValue string
	MinValue     string
	MaxValue     string
	CurrentValue string
}

func (o *uciOption) String() string {
	var b strings.Builder
	b.WriteString("option name ")
	b.WriteString(o.NameID)
	b.WriteString(" type ")
	switch o.OptionType {
	case Check:
		b.WriteString("check default ")
		b.WriteString(o.DefaultValue)
	case Spin:
		b.WriteString("spin default ")
		b.WriteString(o.DefaultValue)
		b.WriteString(" min ")
		b.WriteString(o.MinValue)
		b.WriteString(" max ")
		b.WriteString(o.MaxValue)
	case Button:
		b.WriteString("button")
	case String:
		b.WriteString("string default ")
		if o.DefaultValue == "" {
			b.WriteString("<empty>")
		} else {
			b.WriteString(o.DefaultValue)
		}
	}
	return b.String()
}

type optionMap map[string]*uciOption

var uciOptions optionMap
var sortOrderUciOptions []string

func init() {
	s := &config.Settings.Search
	uciOptions = optionMap{
		"Clear Hash": {NameID: "Clear Hash", HandlerFunc: clearHash, OptionType: Button},
		"Hash":       {NameID: "Hash", HandlerFunc: hashSize, OptionType: Spin, DefaultValue: strconv.Itoa(s.TtSizeMb), CurrentValue: strconv.Itoa(s.TtSizeMb), MinValue: "1", MaxValue: "65536"},
		"Threads":    {NameID: "Threads", HandlerFunc: threads, OptionType: Spin, DefaultValue: strconv.Itoa(s.NumberOfThreads), CurrentValue: strconv.Itoa(s.NumberOfThreads), MinValue: "1", MaxValue: "256"},

		"MultiPV":       {NameID: "MultiPV", HandlerFunc: multiPV, OptionType: Spin, DefaultValue: strconv.Itoa(s.MultiPV), CurrentValue: strconv.Itoa(s.MultiPV), MinValue: "1", MaxValue: "64"},
		"Move Overhead": {NameID: "Move Overhead", HandlerFunc: moveOverhead, OptionType: Spin, DefaultValue: strconv.Itoa(s.MoveOverheadMs), CurrentValue: strconv.Itoa(s.MoveOverheadMs), MinValue: "0", MaxValue: "10000"},

		"SyzygyPath":       {NameID: "SyzygyPath", HandlerFunc: syzygyPath, OptionType: String, DefaultValue: "", CurrentValue: ""},
		"Syzygy50MoveRule": toggleOption("Syzygy50MoveRule", syzygy50Move, s.Syzygy50MoveRule),
		"SyzygyProbeLimit": {NameID: "SyzygyProbeLimit", HandlerFunc: syzygyProbeLimit, OptionType: Spin, DefaultValue: strconv.Itoa(s.SyzygyProbeLimit), CurrentValue: strconv.Itoa(s.SyzygyProbeLimit), MinValue: "0", MaxValue: "7"},

		"Use_TT":       toggleOption("Use_TT", useTT, s.UseTranspositionTable),
		"Use_NullMove": toggleOption("Use_NullMove", useNullMove, s.UseNullMovePruning),
		"Use_Lmr":      toggleOption("Use_Lmr", useLmr, s.UseLmr),
		"Use_Lmp":      toggleOption("Use_Lmp", useLmp, s.UseLmp),
		"Use_Rfp":      toggleOption("Use_Rfp", useRfp, s.UseRfp),
		"Use_Razoring": toggleOption("Use_Razoring", useRazoring, s.UseRazoring),
		"Use_ProbCut":  toggleOption("Use_ProbCut", useProbCut, s.UseProbCut),
		"Use_Singular": toggleOption("Use_Singular", useSingular, s.UseSingularExtension),
		"Use_See":      toggleOption("Use_See", useSee, s.UseSee),
		"Ponder":       toggleOption("Ponder", noopToggle, false),
	}
	sortOrderUciOptions = []string{
		"Hash", "Clear Hash", "Threads", "MultiPV", "Move Overhead", "Ponder",
		"SyzygyPath", "Syzygy50MoveRule", "SyzygyProbeLimit",
		"Use_TT", "Use_NullMove", "Use_Rfp", "Use_Razoring",
		"Use_ProbCut", "Use_Singular", "Use_Lmr", "Use_Lmp", "Use_See",
	}
}

func toggleOption(name string, fn optionHandler, current bool) *uciOption {
	v := strconv.FormatBool(current)
	return &uciOption{NameID: name, HandlerFunc: fn, OptionType: Check, DefaultValue: v, CurrentValue: v}
}

// GetOptions renders every registered option as its "option name ..." line,
// in display order.
func GetOptions() []string {
	out := make([]string, 0, len(sortOrderUciOptions))
	for _, name := range sortOrderUciOptions {
		out = append(out, uciOptions[name].String())
	}
	return out
}

func clearHash(u *UciHandler, _ *uciOption) {
	u.srch.NewGame()
}

func hashSize(u *UciHandler, o *uciOption) {
	v, err := strconv.Atoi(o.CurrentValue)
	if err != nil {
		return
	}
	config.Settings.Search.TtSizeMb = v
	u.srch.Resize(v)
}

func threads(_ *UciHandler, o *uciOption) {
	v, err := strconv.Atoi(o.CurrentValue)
	if err != nil {
		return
	}
	config.Settings.Search.NumberOfThreads = v
}

func useTT(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseTranspositionTable, _ = strconv.ParseBool(o.CurrentValue)
}

func useNullMove(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseNullMovePruning, _ = strconv.ParseBool(o.CurrentValue)
}

func useLmr(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseLmr, _ = strconv.ParseBool(o.CurrentValue)
}

func useLmp(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseLmp, _ = strconv.ParseBool(o.CurrentValue)
}

func useRfp(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseRfp, _ = strconv.ParseBool(o.CurrentValue)
}

func useRazoring(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseRazoring, _ = strconv.ParseBool(o.CurrentValue)
}

func useProbCut(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseProbCut, _ = strconv.ParseBool(o.CurrentValue)
}

func useSingular(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseSingularExtension, _ = strconv.ParseBool(o.CurrentValue)
}

func useSee(_ *UciHandler, o *uciOption) {
	config.Settings.Search.UseSee, _ = strconv.ParseBool(o.CurrentValue)
}

func multiPV(_ *UciHandler, o *uciOption) {
	v, err := strconv.Atoi(o.CurrentValue)
	if err != nil {
		return
	}
	config.Settings.Search.MultiPV = v
}

func moveOverhead(_ *UciHandler, o *uciOption) {
	v, err := strconv.Atoi(o.CurrentValue)
	if err != nil {
		return
	}
	config.Settings.Search.MoveOverheadMs = v
}

func syzygyPath(u *UciHandler, o *uciOption) {
	config.Settings.Search.SyzygyPath = o.CurrentValue
	u.configureTablebase()
}

func syzygy50Move(_ *UciHandler, o *uciOption) {
	config.Settings.Search.Syzygy50MoveRule, _ = strconv.ParseBool(o.CurrentValue)
}

func syzygyProbeLimit(_ *UciHandler, o *uciOption) {
	v, err := strconv.Atoi(o.CurrentValue)
	if err != nil {
		return
	}
	config.Settings.Search.SyzygyProbeLimit = v
}

func noopToggle(_ *UciHandler, _ *uciOption) {}
