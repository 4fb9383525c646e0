// Package uci implements the text-based protocol the engine speaks to a
// chess GUI over stdin/stdout: the "uci"/"isready"/"position"/"go"/"stop"
// command set, move parsing, and "info"/"bestmove" output formatting.
package uci

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/op/go-logging"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arbiterchess/arbiter/internal/config"
	"github.com/arbiterchess/arbiter/internal/evaluator"
	myLogging "github.com/arbiterchess/arbiter/internal/logging"
	"github.com/arbiterchess/arbiter/internal/movegen"
	"github.com/arbiterchess/arbiter/internal/position"
	"github.com/arbiterchess/arbiter/internal/search"
	. "github.com/arbiterchess/arbiter/internal/types"
)

var out = message.NewPrinter(language.English)
var log *logging.Logger

func init() {
	log = myLogging.GetLog(myLogging.EngineLogger)
}

// EngineName/EngineAuthor answer the "uci" handshake's "id" lines.
const (
	EngineName   = "Arbiter"
	EngineAuthor = "the arbiterchess project"
)

// UciHandler owns the engine-facing side of one protocol session: the
// current position, the search driver, and the input/output streams the
// GUI talks over. It implements search.UciHandler so Search can push
// progress and results straight back out through it.
type UciHandler struct {
	InIo  *bufio.Scanner
	OutIo *bufio.Writer

	pos     *position.Position
	srch    *search.Search
	perft   *movegen.Perft
	protoLog *logging.Logger

	// outMu serializes writes: search goroutines push "info"/"bestmove"
	// lines concurrently with the command loop's own responses.
	outMu sync.Mutex
}

// NewUciHandler wires a fresh handler onto stdin/stdout with a new Search
// and the standard starting position.
func NewUciHandler() *UciHandler {
	u := &UciHandler{
		InIo:     bufio.NewScanner(os.Stdin),
		OutIo:    bufio.NewWriter(os.Stdout),
		pos:      position.NewStartPosition(),
		srch:     search.NewSearch(),
		perft:    movegen.NewPerft(),
		protoLog: myLogging.GetLog(myLogging.EngineLogger),
	}
	u.InIo.Buffer(make([]byte, 1024*1024), 1024*1024)
	u.srch.SetUciHandler(u)
	return u
}

// Loop reads commands from InIo until "quit" or EOF.
func (u *UciHandler) Loop() {
	for u.InIo.Scan() {
		if u.handle(u.InIo.Text()) {
			return
		}
	}
}

// Command runs a single line through the handler and returns whatever it
// wrote to OutIo - used by tests that don't want to wire up real stdio.
func (u *UciHandler) Command(cmd string) string {
	saved := u.OutIo
	buf := new(bytes.Buffer)
	u.OutIo = bufio.NewWriter(buf)
	u.handle(cmd)
	_ = u.OutIo.Flush()
	u.OutIo = saved
	return buf.String()
}

// SendIterationEndInfo implements search.UciHandler.
func (u *UciHandler) SendIterationEndInfo(depth, seldepth int, value Value, nodes uint64, elapsed time.Duration, hashFull int, pv string) {
	nps := uint64(0)
	if elapsed > 0 {
		nps = nodes * uint64(time.Second) / uint64(elapsed)
	}
	u.send(fmt.Sprintf("info depth %d seldepth %d score %s nodes %d nps %d time %d hashfull %d pv %s",
		depth, seldepth, value.String(), nodes, nps, elapsed.Milliseconds(), hashFull, pv))
}

// SendResult implements search.UciHandler.
func (u *UciHandler) SendResult(bestMove, ponderMove Move) {
	var b strings.Builder
	b.WriteString("bestmove ")
	b.WriteString(bestMove.StringUci())
	if ponderMove != MoveNone {
		b.WriteString(" ponder ")
		b.WriteString(ponderMove.StringUci())
	}
	u.send(b.String())
}

// SendInfoString sends a free-form "info string" line, the protocol's
// catch-all for diagnostics that don't fit the structured info fields.
func (u *UciHandler) SendInfoString(s string) {
	u.send("info string " + s)
}

var whitespace = regexp.MustCompile(`\s+`)

// handle dispatches one protocol line, returning true if it was "quit".
func (u *UciHandler) handle(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	u.protoLog.Debugf("<< %s", line)
	tokens := whitespace.Split(line, -1)
	switch tokens[0] {
	case "quit":
		return true
	case "uci":
		u.uciCmd()
	case "isready":
		u.srch.IsReady()
		u.send("readyok")
	case "setoption":
		u.setOptionCmd(tokens)
	case "ucinewgame":
		u.pos = position.NewStartPosition()
		u.srch.NewGame()
	case "position":
		u.positionCmd(tokens)
	case "go":
		u.goCmd(tokens)
	case "stop":
		u.srch.StopSearch()
		u.perft.Stop()
	case "ponderhit":
		u.srch.PonderHit()
	case "debug":
		// accepted and ignored: no separate debug-log verbosity mode
	case "perft":
		u.perftCmd(tokens)
	case "eval":
		u.evalCmd()
	default:
		log.Warningf("uci: unknown command %q", line)
	}
	return false
}

func (u *UciHandler) uciCmd() {
	u.send(out.Sprintf("id name %s", EngineName))
	u.send(out.Sprintf("id author %s", EngineAuthor))
	for _, o := range GetOptions() {
		u.send(o)
	}
	u.send("uciok")
}

func (u *UciHandler) setOptionCmd(tokens []string) {
	if len(tokens) < 2 || tokens[1] != "name" {
		u.SendInfoString("setoption malformed: missing 'name'")
		return
	}
	i := 2
	var name strings.Builder
	for i < len(tokens) && tokens[i] != "value" {
		if name.Len() > 0 {
			name.WriteByte(' ')
		}
		name.WriteString(tokens[i])
		i++
	}
	value := ""
	if i < len(tokens)-1 && tokens[i] == "value" {
		value = strings.Join(tokens[i+1:], " ")
	}
	opt, ok := uciOptions[name.String()]
	if !ok {
		u.SendInfoString(out.Sprintf("no such option %q", name.String()))
		return
	}
	opt.CurrentValue = value
	opt.HandlerFunc(u, opt)
}

func (u *UciHandler) positionCmd(tokens []string) {
	if len(tokens) < 2 {
		u.SendInfoString("position malformed: missing argument")
		return
	}
	i := 1
	fen := position.StartFen
	switch tokens[i] {
	case "startpos":
		i++
	case "fen":
		i++
		var b strings.Builder
		for i < len(tokens) && tokens[i] != "moves" {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(tokens[i])
			i++
		}
		fen = b.String()
	default:
		u.SendInfoString("position malformed: expected 'startpos' or 'fen'")
		return
	}

	pos, err := position.NewPosition(fen)
	if err != nil {
		u.SendInfoString(out.Sprintf("position malformed fen %q: %v", fen, err))
		return
	}
	u.pos = pos

	if i < len(tokens) && tokens[i] == "moves" {
		i++
		for ; i < len(tokens); i++ {
			m := movegen.MoveFromUci(u.pos, tokens[i])
			if !m.IsValid() {
				u.SendInfoString(out.Sprintf("position malformed: illegal move %q", tokens[i]))
				return
			}
			u.pos.DoMove(m)
		}
	}
}

func (u *UciHandler) goCmd(tokens []string) {
	lim, ok := u.readLimits(tokens)
	if !ok {
		return
	}
	u.srch.StartSearch(u.pos, lim)
}

// configureTablebase re-wires the search's tablebase prober after a
// SyzygyPath change. No prober implementation ships in this build, so any
// non-empty path keeps the no-op prober and says so.
func (u *UciHandler) configureTablebase() {
	if config.Settings.Search.SyzygyPath == "" {
		u.srch.SetProber(nil)
		return
	}
	u.SendInfoString("syzygy tablebases unavailable in this build, using search only")
}

func (u *UciHandler) evalCmd() {
	v := evaluator.Evaluate(u.pos)
	u.SendInfoString(out.Sprintf("static eval (side to move) = %s", v.String()))
}

func (u *UciHandler) perftCmd(tokens []string) {
	depth := 5
	if len(tokens) > 1 {
		if v, err := strconv.Atoi(tokens[1]); err == nil {
			depth = v
		}
	}
	endDepth := depth
	if len(tokens) > 2 {
		if v, err := strconv.Atoi(tokens[2]); err == nil {
			endDepth = v
		}
	}
	go u.perft.StartPerftMulti(position.StartFen, depth, endDepth)
}

func (u *UciHandler) readLimits(tokens []string) (search.Limits, bool) {
	lim := search.NewLimits()
	i := 1
	for i < len(tokens) {
		switch tokens[i] {
		case "infinite":
			lim.Infinite = true
			i++
		case "ponder":
			lim.Ponder = true
			i++
		case "depth":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.Depth = v
			i++
		case "nodes":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.Nodes = uint64(v)
			i++
		case "movetime":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.MoveTime = time.Duration(v) * time.Millisecond
			i++
		case "wtime":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.WhiteTime = time.Duration(v) * time.Millisecond
			i++
		case "btime":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.BlackTime = time.Duration(v) * time.Millisecond
			i++
		case "winc":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.WhiteInc = time.Duration(v) * time.Millisecond
			i++
		case "binc":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.BlackInc = time.Duration(v) * time.Millisecond
			i++
		case "movestogo":
			i++
			v, err := u.intArg(tokens, i)
			if err != nil {
				return lim, false
			}
			lim.MovesToGo = v
			i++
		case "searchmoves":
			i++
			for i < len(tokens) {
				m := movegen.MoveFromUci(u.pos, tokens[i])
				if !m.IsValid() {
					break
				}
				lim.SearchMoves = append(lim.SearchMoves, m)
				i++
			}
		default:
			u.SendInfoString(out.Sprintf("go malformed: unknown subcommand %q", tokens[i]))
			return lim, false
		}
	}
	return lim, true
}

func (u *UciHandler) intArg(tokens []string, i int) (int, error) {
	if i >= len(tokens) {
		return 0, fmt.Errorf("missing argument")
	}
	v, err := strconv.Atoi(tokens[i])
	if err != nil {
		u.SendInfoString(out.Sprintf("go malformed: %q is not a number", tokens[i]))
	}
	return v, err
}

func (u *UciHandler) send(s string) {
	u.protoLog.Debugf(">> %s", s)
	u.outMu.Lock()
	_, _ = u.OutIo.WriteString(s + "\n")
	_ = u.OutIo.Flush()
	u.outMu.Unlock()
}
