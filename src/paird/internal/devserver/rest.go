package devserver

import (
	"encoding/json"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pairdev/paird/src/paird/factory"
	"github.com/pairdev/paird/src/paird/mapper"
)

const (
	_defaultListLimit = 100
	_maxSuggestions   = 3

	// The mock's confidence grows with context length and tops out below 1.
	_confidenceFloor   = 0.5
	_confidenceCeiling = 0.95
	_confidencePerByte = 1.0 / 1000
)

// Canned suggestion pools by language tag, lowercase. Unknown languages fall
// back to python.
var _suggestionPools = map[string][]string{
	"python": {
		"def function_name():",
		"class ClassName:",
		"import numpy as np",
		"for item in items:",
		"if condition:",
		"try:",
		"with open('file.txt', 'r') as f:",
		"return result",
		"print(f'{variable}')",
		"async def async_function():",
	},
	"javascript": {
		"const variable = ",
		"function functionName() {",
		"class ClassName {",
		"if (condition) {",
		"for (let i = 0; i < length; i++) {",
		"try {",
		"async function asyncFunction() {",
		"return result;",
		"console.log(variable);",
		"import { Component } from 'module';",
	},
	"typescript": {
		"const variable: Type = ",
		"function functionName(): ReturnType {",
		"interface InterfaceName {",
		"class ClassName implements Interface {",
		"type TypeName = ",
		"enum EnumName {",
		"async function asyncFunction(): Promise<Type> {",
		"export default ",
		"import type { Type } from 'module';",
		"private readonly property: Type;",
	},
	"java": {
		"public class ClassName {",
		"private static final ",
		"public static void main(String[] args) {",
		"for (int i = 0; i < length; i++) {",
		"if (condition) {",
		"try {",
		"return result;",
		"System.out.println(variable);",
		"import java.util.*;",
		"@Override",
	},
	"go": {
		"func functionName() {",
		"type StructName struct {",
		"if condition {",
		"for i := 0; i < length; i++ {",
		"return result",
		"fmt.Println(variable)",
		"import (",
		"package main",
		"defer ",
		"go func() {",
	},
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms/", s.handleCreateRoom).Methods(http.MethodPost)
	api.HandleFunc("/rooms/", s.handleListRooms).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", s.handleDeleteRoom).Methods(http.MethodDelete)
	api.HandleFunc("/autocomplete/", s.handleAutocomplete).Methods(http.MethodPost)
	r.HandleFunc("/ws/{id}", s.handleChannel)
	return r
}

type createRoomRequest struct {
	Name     string `json:"name"`
	Language string `json:"language"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	room := s.store.create(req.Name, req.Language)
	s.logger.Infow("Created room", "roomId", room.ID, "name", room.Name, "language", room.Language)
	writeJSON(w, http.StatusCreated, room)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	room, ok := s.store.get(roomID)
	if !ok {
		writeErrorJSON(w, http.StatusNotFound, "room "+roomID+" not found")
		return
	}
	writeJSON(w, http.StatusOK, room)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", _defaultListLimit)
	writeJSON(w, http.StatusOK, s.store.list(skip, limit))
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]
	if !s.store.delete(roomID) {
		writeErrorJSON(w, http.StatusNotFound, "room "+roomID+" not found")
		return
	}
	s.logger.Infow("Deleted room", "roomId", roomID)
	w.WriteHeader(http.StatusNoContent)
}

type autocompleteRequest struct {
	Code           *string `json:"code"`
	CursorPosition int     `json:"cursor_position"`
	Language       string  `json:"language"`
}

type autocompleteResponse struct {
	Suggestions []string `json:"suggestions"`
	Confidence  float64  `json:"confidence"`
}

// handleAutocomplete serves canned suggestions in place of a real model.
// Confidence scales with context length; cursor offsets beyond the text are
// clamped, negative ones rejected.
func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	var req autocompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request parameters")
		return
	}
	if req.CursorPosition < 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid request parameters")
		return
	}

	code := *req.Code
	cursor := req.CursorPosition
	if cursor > len(code) {
		cursor = len(code)
	}

	pool, ok := _suggestionPools[strings.ToLower(req.Language)]
	if !ok {
		pool = _suggestionPools["python"]
	}

	picked := make([]string, 0, _maxSuggestions)
	for _, i := range rand.Perm(len(pool)) {
		picked = append(picked, pool[i])
		if len(picked) == _maxSuggestions {
			break
		}
	}

	confidence := _confidenceFloor + float64(len(code))*_confidencePerByte
	if confidence > _confidenceCeiling {
		confidence = _confidenceCeiling
	}

	s.logger.Debugw("Served mock suggestions",
		"language", req.Language, "cursor", cursor, "count", len(picked))
	writeJSON(w, http.StatusOK, autocompleteResponse{
		Suggestions: picked,
		Confidence:  math.Round(confidence*100) / 100,
	})
}

// handleChannel upgrades the connection and joins the client to its room.
// Unknown rooms are refused with close code 1008 after the handshake.
func (s *Server) handleChannel(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["id"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warnw("Channel upgrade failed", "roomId", roomID, "error", err)
		return
	}

	room, ok := s.store.get(roomID)
	if !ok {
		s.logger.Warnw("Refusing channel to unknown room", "roomId", roomID)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "room not found"),
			s.clock.Now().Add(_writeWait))
		conn.Close()
		return
	}

	c := newClient(s, conn, roomID, factory.UserID())
	count := s.hub.register(c)
	s.stats.Counter("relay_connections").Inc(1)
	s.logger.Infow("Room client connected", "roomId", roomID, "userId", c.userID, "userCount", count)

	s.wg.Add(2)
	go c.writePump()
	go c.readPump()

	// The joiner gets the authoritative baseline; everyone else learns the
	// new head count.
	if frame, err := mapper.EncodeInitAt(roomID, room.Code, room.Language, s.clock.Now()); err == nil {
		c.enqueue(frame)
	}
	if frame, err := mapper.EncodeUserJoinedAt(roomID, count, s.clock.Now()); err == nil {
		s.hub.relay(roomID, c, frame)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorJSON(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
