package handlers

import (
	"net/http"
	"strconv"

	"github.com/warwickbarbell/blackboards/internal/auth"
)

const qrSize = 256

func (h *Handlers) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.Positions.ListPositions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, positions)
}

func (h *Handlers) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	positionID, err := parseIntParam(r, "positionID")
	if err != nil {
		respondError(w, err)
		return
	}
	p, _ := auth.PrincipalFromContext(r.Context())

	candidates, err := h.Ballots.CurrentBallot(r.Context(), p.ID, positionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, BallotResponse{PositionID: positionID, Candidates: candidates})
}

// handleSubmitBallot replaces the signed-in member's ballot for a position
func (h *Handlers) handleSubmitBallot(w http.ResponseWriter, r *http.Request) {
	positionID, err := parseIntParam(r, "positionID")
	if err != nil {
		respondError(w, err)
		return
	}
	var req BallotSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	p, _ := auth.PrincipalFromContext(r.Context())

	if err := h.Ballots.SubmitBallot(r.Context(), p.ID, positionID, req.Rankings); err != nil {
		h.fail(w, r, err)
		return
	}

	candidates, err := h.Ballots.CurrentBallot(r.Context(), p.ID, positionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, BallotResponse{PositionID: positionID, Candidates: candidates})
}

// handleComputeResults tallies every position and marks the winners of
// closed positions as elected
func (h *Handlers) handleComputeResults(w http.ResponseWriter, r *http.Request) {
	var req ResultsRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	tieBreak := h.TieBreakVoterID
	if req.TieBreakVoterID != nil {
		tieBreak = *req.TieBreakVoterID
	}

	results, err := h.Results.ComputeResults(r.Context(), tieBreak)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, results)
}

// handlePreviewResults tallies without recording anything. The tie-break
// voter may be given as ?tie_break_voter_id=n.
func (h *Handlers) handlePreviewResults(w http.ResponseWriter, r *http.Request) {
	tieBreak := h.TieBreakVoterID
	if raw := r.URL.Query().Get("tie_break_voter_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			respondError(w, BadRequest("Invalid tie_break_voter_id parameter"))
			return
		}
		tieBreak = id
	}

	results, err := h.Results.PreviewResults(r.Context(), tieBreak)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, results)
}

func (h *Handlers) handleTogglePosition(w http.ResponseWriter, r *http.Request) {
	positionID, err := parseIntParam(r, "positionID")
	if err != nil {
		respondError(w, err)
		return
	}

	open, err := h.Positions.TogglePosition(r.Context(), positionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondOK(w, PositionStatusResponse{PositionID: positionID, Open: open})
}

func (h *Handlers) handleBallotQR(w http.ResponseWriter, r *http.Request) {
	positionID, err := parseIntParam(r, "positionID")
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Positions.BallotQRCode(r.Context(), positionID, qrSize)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}
