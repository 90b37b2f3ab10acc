package cmd

import (
	"io"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/jsphweid/chorale/config"
	"github.com/jsphweid/chorale/decode"
	"github.com/jsphweid/chorale/logger"
	"github.com/jsphweid/chorale/model"
	"github.com/jsphweid/chorale/notation"
	"github.com/jsphweid/chorale/sample"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// decoded pieces are small; anything bigger is not a chorale
const maxBodyBytes = 1 << 20

const maxSeedBars = 256

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	cobra.CheckErr(viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr")))
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves decoding and seed excerpts over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Get()
		if err != nil {
			return err
		}
		logger.Info("Listening", "addr", cfg.ServerAddr)
		return http.ListenAndServe(cfg.ServerAddr, NewRouter(NewServer(cfg)))
	},
}

type Server struct {
	Lib        notation.Library
	Decode     decode.Options
	EncodedDir string
	Layout     model.Layout

	mu  sync.Mutex
	rng *rand.Rand
}

func NewServer(cfg config.Config) *Server {
	return &Server{
		Lib:        notation.Default{},
		Decode:     DecodeOptions(cfg),
		EncodedDir: cfg.EncodedDir,
		Layout:     cfg.Layout,
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

func NewRouter(s *Server) http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/decode", s.HandleDecode).Methods("POST")
	router.HandleFunc("/seed", s.HandleSeed).Methods("GET")
	return cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(router)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(model.ErrorResponse{Error: err.Error()})
}

// HandleDecode renders the encoded text in the request body.
func (s *Server) HandleDecode(w http.ResponseWriter, r *http.Request) {
	format, err := notation.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, errors.Errorf("body exceeds %d bytes", tooLarge.Limit))
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "Could not read request body"))
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("empty body"))
		return
	}

	score, report, err := decode.Decode(string(body), s.Decode)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	data, err := s.Lib.Render(score, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Dropped-Steps", strconv.Itoa(report.Dropped))
	w.Write(data)
}

// seed holds mu since rng is not safe for concurrent use.
func (s *Server) seed(bars int) (sample.Excerpt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sample.Seed(s.EncodedDir, s.Layout, bars, s.rng)
}

// HandleSeed returns the opening bars of a random encoded song.
func (s *Server) HandleSeed(w http.ResponseWriter, r *http.Request) {
	bars := 1
	if v := r.URL.Query().Get("bars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSeedBars {
			writeError(w, http.StatusBadRequest, errors.Errorf("bars must be an integer from 1 to %d, got %q", maxSeedBars, v))
			return
		}
		bars = n
	}

	e, err := s.seed(bars)
	if errors.Is(err, sample.ErrNoSongs) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	text, err := e.Text(s.Layout)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(model.SeedResponse{SongFile: e.SongFile, Bars: e.Bars, Text: text})
}
