// Command seedclub generates a demo league and registers it against a
// running calcio server, one register action per squad.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/okian/calcio/internal/domain/model"
	"github.com/okian/calcio/pkg/logger"
)

var firstNames = []string{
	"Luca", "Marco", "Paolo", "Andrea", "Matteo", "Davide", "Simone",
	"Stefano", "Giorgio", "Fabio", "Nicola", "Emanuele", "Riccardo",
}

var lastNames = []string{
	"Rossi", "Bianchi", "Ferrari", "Esposito", "Romano", "Colombo",
	"Ricci", "Marino", "Greco", "Gallo", "Conti", "De Luca", "Costa",
}

var clubNames = []string{
	"Aquila", "Torre", "Lupo", "Falco", "Leone", "Volpe", "Orso",
	"Corvo", "Drago", "Toro", "Cervo", "Lince", "Pantera", "Grifone",
}

func randomName(rnd *rand.Rand) string {
	return firstNames[rnd.Intn(len(firstNames))] + " " + lastNames[rnd.Intn(len(lastNames))]
}

func rosterPositions() []model.Position {
	return []model.Position{
		model.PosGK,
		model.PosCB, model.PosCB, model.PosLB, model.PosRB,
		model.PosCM, model.PosCM, model.PosLM, model.PosRM,
		model.PosST, model.PosST,
		model.PosGK, model.PosCB, model.PosCB, model.PosLM,
		model.PosCM, model.PosRM, model.PosST,
	}
}

func buildSquad(rnd *rand.Rand, idx int) *model.Squad {
	name := clubNames[idx%len(clubNames)]
	sq := &model.Squad{
		Code:      fmt.Sprintf("%.3s%d", name, idx),
		Name:      name + " Calcio",
		Formation: "4-4-2",
		Finances:  model.Finances{Balance: 5_000_000 + rnd.Int63n(10_000_000)},
	}
	for _, pos := range rosterPositions() {
		base := 2 + rnd.Intn(4)
		jitter := func() int {
			v := base + rnd.Intn(3) - 1
			if v < 0 {
				return 0
			}
			if v > 7 {
				return 7
			}
			return v
		}
		sq.Players = append(sq.Players, &model.Player{
			ID:       uuid.NewString(),
			Name:     randomName(rnd),
			Position: pos,
			Age:      18 + rnd.Intn(17),
			Skills: model.Skills{
				Passing: jitter(), Velocity: jitter(), Heading: jitter(),
				Tackling: jitter(), Control: jitter(), Speed: jitter(),
				Finishing: jitter(),
			},
			Value: 500_000 + rnd.Int63n(4_000_000),
			Wage:  5_000 + rnd.Int63n(40_000),
		})
	}
	return sq
}

func postAction(ctx context.Context, server string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal action: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, server+"/actions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post action: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("server rejected action: %s (%d)", apiErr.Error, resp.StatusCode)
	}
	return nil
}

func main() {
	var (
		server = flag.String("server", "http://localhost:9080", "calcio server base URL")
		squads = flag.Int("squads", 8, "number of squads to register")
		tier   = flag.Int("tier", 1, "division tier to register into")
		seed   = flag.Int64("seed", 0, "generator seed, 0 seeds from the clock")
		start  = flag.Bool("start", false, "start the season after registering")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	s := *seed
	if s == 0 {
		s = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(s))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for i := 0; i < *squads; i++ {
		sq := buildSquad(rnd, i)
		if err := postAction(ctx, *server, map[string]interface{}{
			"type":  "register",
			"tier":  *tier,
			"squad": sq,
		}); err != nil {
			log.Error(ctx, "registration failed",
				logger.String("squad", sq.Code), logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "squad registered",
			logger.String("code", sq.Code), logger.String("name", sq.Name))
	}

	if *start {
		if err := postAction(ctx, *server, map[string]interface{}{"type": "start_season"}); err != nil {
			log.Error(ctx, "failed to start season", logger.Error(err))
			os.Exit(1)
		}
		log.Info(ctx, "season started")
	}
}
