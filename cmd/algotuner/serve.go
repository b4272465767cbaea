package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/cwbudde/algo-tuner/tuner"
	"github.com/cwbudde/algo-tuner/tuner/clock"
	"github.com/cwbudde/algo-tuner/tuner/note"
)

var (
	serveAddr  string
	serveClock string
	serveFreq  float64
	serveDebug bool
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveClock, "clock", "1kHz", "sampling clock (name or code)")
	serveCmd.Flags().Float64Var(&serveFreq, "freq", 330, "initial source frequency in Hz")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging (adds source location)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live pipeline state over HTTP",
	Long: `Runs a continuously ticking pipeline fed by a retunable synthesized
square source and exposes its state as JSON:

  GET  /state    current classification and counters
  GET  /targets  the detection table
  POST /tune     {"frequency_hz": 331} retunes the source
  POST /reset    forces the pipeline back to its initial state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, err := parseClock(serveClock)
		if err != nil {
			return err
		}

		logger := initLogger(serveDebug)
		srv, err := newServer(serveConfig{
			Duration: flagDuration,
			Window:   flagWindow,
			Clock:    sel,
			FreqHz:   serveFreq,
		}, logger)
		if err != nil {
			return err
		}

		go srv.run()
		logger.Info("serving tuner state",
			"addr", serveAddr,
			"session", srv.session,
			"clock", sel.String(),
			"frequency_hz", serveFreq,
		)
		return http.ListenAndServe(serveAddr, srv.routes())
	},
}

// initLogger configures the shared slog logger and calls slog.SetDefault so
// the stdlib log package routes through the same handler.
func initLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// oscillator is a retunable square source. Retuning keeps the phase, like
// turning the peg of a sounding string.
type oscillator struct {
	rateHz float64
	freqHz float64
	phase  float64
}

func (o *oscillator) next() bool {
	high := o.phase < 0.5
	o.phase += o.freqHz / o.rateHz
	for o.phase >= 1 {
		o.phase--
	}
	return high
}

type serveConfig struct {
	Duration float64
	Window   int
	Clock    clock.Code
	FreqHz   float64
}

type server struct {
	mu   sync.Mutex
	tun  *tuner.Tuner
	osc  oscillator
	sel  clock.Code
	tick uint64
	last tuner.Output

	session   string
	startedAt time.Time

	logger      *slog.Logger
	logDebounce func(func())
}

func newServer(cfg serveConfig, logger *slog.Logger) (*server, error) {
	setting, ok := clock.Lookup(cfg.Clock)
	if !ok {
		return nil, fmt.Errorf("clock code not in table: %d", cfg.Clock)
	}
	if cfg.FreqHz <= 0 || cfg.FreqHz >= float64(setting.FrequencyHz)/2 {
		return nil, fmt.Errorf("frequency out of range (0, %g): %g", float64(setting.FrequencyHz)/2, cfg.FreqHz)
	}

	tcfg := tuner.DefaultConfig()
	tcfg.SamplingDuration = cfg.Duration
	tcfg.DetectionWindow = cfg.Window
	tcfg.InitialClock = cfg.Clock

	tun, err := tuner.New(note.StandardGuitar(), tcfg)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &server{
		tun:         tun,
		osc:         oscillator{rateHz: float64(setting.FrequencyHz), freqHz: cfg.FreqHz},
		sel:         cfg.Clock,
		session:     uuid.New().String(),
		startedAt:   time.Now(),
		logger:      logger,
		logDebounce: debounce.New(250 * time.Millisecond),
	}, nil
}

// advance ticks the pipeline n times from the synthesized source. Note
// changes are logged through the debouncer so a flapping classification
// produces one line, not a burst.
func (s *server) advance(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		out := s.tun.Tick(tuner.Input{Pulse: s.osc.next(), Clock: s.sel})
		if out.Note != s.last.Note {
			name := out.Note.String()
			count := out.Count
			tick := s.tick
			s.logDebounce(func() {
				s.logger.Info("note changed",
					"session", s.session, "note", name, "count", count, "tick", tick)
			})
		}
		s.last = out
		s.tick++
	}
}

// run drives the pipeline in batches sized to keep wall-clock pace with the
// sampling clock.
func (s *server) run() {
	const interval = 10 * time.Millisecond
	batch := int(s.osc.rateHz * interval.Seconds())
	if batch < 1 {
		batch = 1
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.advance(batch)
	}
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter().StrictSlash(true)
	r.HandleFunc("/state", s.handleState).Methods("GET")
	r.HandleFunc("/targets", s.handleTargets).Methods("GET")
	r.HandleFunc("/tune", s.handleTune).Methods("POST")
	r.HandleFunc("/reset", s.handleReset).Methods("POST")
	return cors.Default().Handler(r)
}

type stateResponse struct {
	Session     string  `json:"session"`
	UptimeMs    int64   `json:"uptime_ms"`
	Tick        uint64  `json:"tick"`
	Clock       string  `json:"clock"`
	WindowTicks uint64  `json:"window_ticks"`
	FrequencyHz float64 `json:"frequency_hz"`
	Note        string  `json:"note"`
	Valid       bool    `json:"valid"`
	Exact       bool    `json:"exact"`
	High        bool    `json:"high"`
	Far         bool    `json:"far"`
	Count       uint64  `json:"count"`
}

type targetResponse struct {
	Name      string `json:"name"`
	Class     string `json:"class"`
	MIDIKey   uint8  `json:"midi_key"`
	Expected  uint64 `json:"expected"`
	Threshold uint64 `json:"threshold"`
}

type tuneRequest struct {
	FrequencyHz float64 `json:"frequency_hz"`
}

func (s *server) stateLocked() stateResponse {
	return stateResponse{
		Session:     s.session,
		UptimeMs:    time.Since(s.startedAt).Milliseconds(),
		Tick:        s.tick,
		Clock:       s.sel.String(),
		WindowTicks: s.tun.WindowTicks(),
		FrequencyHz: s.osc.freqHz,
		Note:        s.last.Note.String(),
		Valid:       s.last.Valid(),
		Exact:       s.last.Exact,
		High:        s.last.High,
		Far:         s.last.Far,
		Count:       s.last.Count,
	}
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.stateLocked()
	s.mu.Unlock()
	s.writeJSON(w, resp)
}

func (s *server) handleTargets(w http.ResponseWriter, r *http.Request) {
	tuning := s.tun.Tuning()
	targets := s.tun.Targets()
	resp := make([]targetResponse, 0, len(targets))
	for _, tgt := range targets {
		n, _ := tuning.Find(tgt.Name)
		resp = append(resp, targetResponse{
			Name:      tgt.Name,
			Class:     tgt.Class.String(),
			MIDIKey:   n.MIDIKey(),
			Expected:  tgt.Expected,
			Threshold: tgt.Threshold,
		})
	}
	s.writeJSON(w, resp)
}

func (s *server) handleTune(w http.ResponseWriter, r *http.Request) {
	var req tuneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.FrequencyHz <= 0 || req.FrequencyHz >= s.osc.rateHz/2 {
		http.Error(w, fmt.Sprintf("frequency out of range (0, %g): %g", s.osc.rateHz/2, req.FrequencyHz), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.osc.freqHz = req.FrequencyHz
	resp := s.stateLocked()
	s.mu.Unlock()

	s.logger.Info("source retuned", "session", s.session, "frequency_hz", req.FrequencyHz)
	s.writeJSON(w, resp)
}

func (s *server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.tun.Reset()
	s.last = tuner.Output{}
	resp := s.stateLocked()
	s.mu.Unlock()

	s.logger.Info("pipeline reset", "session", s.session)
	s.writeJSON(w, resp)
}
