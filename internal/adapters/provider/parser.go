package provider

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmilab/mmi/internal/domain/model"
)

// Wire shapes for the MLB Stats API live feed. Only the fields the
// parser reads are declared.

type gameFeed struct {
	GamePk   int64    `json:"gamePk"`
	GameData gameData `json:"gameData"`
	LiveData liveData `json:"liveData"`
}

type gameData struct {
	Datetime struct {
		DateTime     string `json:"dateTime"`
		OfficialDate string `json:"officialDate"`
	} `json:"datetime"`
	Teams struct {
		Home teamInfo `json:"home"`
		Away teamInfo `json:"away"`
	} `json:"teams"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
	GameInfo struct {
		Attendance int `json:"attendance"`
	} `json:"gameInfo"`
	Game struct {
		Type string `json:"type"`
	} `json:"game"`
}

type teamInfo struct {
	Abbreviation string `json:"abbreviation"`
}

type liveData struct {
	Plays struct {
		AllPlays []play `json:"allPlays"`
	} `json:"plays"`
}

type play struct {
	Matchup struct {
		Batter  person `json:"batter"`
		Pitcher person `json:"pitcher"`
	} `json:"matchup"`
	Result struct {
		HomeScore int `json:"homeScore"`
		AwayScore int `json:"awayScore"`
	} `json:"result"`
	About struct {
		Inning     int    `json:"inning"`
		HalfInning string `json:"halfInning"`
		Outs       int    `json:"outs"`
	} `json:"about"`
	Runners    []runner    `json:"runners"`
	PlayEvents []playEvent `json:"playEvents"`
}

type person struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

type runner struct {
	Movement struct {
		Start string `json:"start"`
	} `json:"movement"`
}

type playEvent struct {
	IsPitch bool `json:"isPitch"`
	Count   struct {
		Balls   int `json:"balls"`
		Strikes int `json:"strikes"`
	} `json:"count"`
	Details struct {
		Description string `json:"description"`
		Type        struct {
			Code string `json:"code"`
		} `json:"type"`
	} `json:"details"`
	PitchData struct {
		StartSpeed  float64 `json:"startSpeed"`
		Coordinates struct {
			PX float64 `json:"pX"`
			PZ float64 `json:"pZ"`
		} `json:"coordinates"`
	} `json:"pitchData"`
}

type scheduleResponse struct {
	Dates []struct {
		Games []struct {
			GamePk int64 `json:"gamePk"`
		} `json:"games"`
	} `json:"dates"`
}

// parseFeed flattens a live feed into per-pitch records.
func parseFeed(feed *gameFeed) []model.PitchRecord {
	gameID := strconv.FormatInt(feed.GamePk, 10)
	gameDate := parseGameDate(feed)
	home := feed.GameData.Teams.Home.Abbreviation
	away := feed.GameData.Teams.Away.Abbreviation
	postseason := feed.GameData.Game.Type == "P"

	var out []model.PitchRecord
	for atBatIdx, p := range feed.LiveData.Plays.AllPlays {
		topHalf := strings.EqualFold(p.About.HalfInning, "top")
		bases := parseBaseState(p.Runners)

		batterTeam, pitcherTeam := home, away
		if topHalf {
			batterTeam, pitcherTeam = away, home
		}

		pitchNum := 0
		for _, ev := range p.PlayEvents {
			if !ev.IsPitch {
				continue
			}
			pitchNum++

			out = append(out, model.PitchRecord{
				GameID:      gameID,
				PitchID:     gameID + "_" + strconv.Itoa(atBatIdx) + "_" + strconv.Itoa(pitchNum),
				AtBatIndex:  atBatIdx,
				PitchNumber: pitchNum,
				GameDate:    gameDate,
				BatterID:    strconv.FormatInt(p.Matchup.Batter.ID, 10),
				BatterName:  p.Matchup.Batter.FullName,
				BatterTeam:  batterTeam,
				PitcherID:   strconv.FormatInt(p.Matchup.Pitcher.ID, 10),
				PitcherName: p.Matchup.Pitcher.FullName,
				PitcherTeam: pitcherTeam,
				HomeTeam:    home,
				AwayTeam:    away,
				State: model.GameState{
					Inning:    maxInt(p.About.Inning, 1),
					TopHalf:   topHalf,
					Outs:      p.About.Outs,
					Bases:     bases,
					HomeScore: p.Result.HomeScore,
					AwayScore: p.Result.AwayScore,
				},
				Count: model.Count{
					Balls:   ev.Count.Balls,
					Strikes: ev.Count.Strikes,
				},
				Type:       parsePitchType(ev.Details.Type.Code),
				Velocity:   ev.PitchData.StartSpeed,
				PlateX:     ev.PitchData.Coordinates.PX,
				PlateZ:     ev.PitchData.Coordinates.PZ,
				Result:     parsePitchResult(ev.Details.Description),
				Venue:      feed.GameData.Venue.Name,
				Attendance: feed.GameData.GameInfo.Attendance,
				Postseason: postseason,
			})
		}

		// Flag the last pitch of each plate appearance.
		if pitchNum > 0 {
			out[len(out)-1].FinalPitchOfPA = true
		}
	}
	return out
}

func parseGameDate(feed *gameFeed) time.Time {
	raw := feed.GameData.Datetime.DateTime
	if raw == "" {
		raw = feed.GameData.Datetime.OfficialDate
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now().UTC()
}

func parseBaseState(runners []runner) model.BaseState {
	var bs model.BaseState
	for _, r := range runners {
		switch r.Movement.Start {
		case "1B":
			bs.First = true
		case "2B":
			bs.Second = true
		case "3B":
			bs.Third = true
		}
	}
	return bs
}

func parsePitchType(code string) model.PitchType {
	switch model.PitchType(code) {
	case model.Fastball, model.TwoSeam, model.Cutter, model.Sinker,
		model.Slider, model.Curveball, model.Changeup, model.Splitter,
		model.Knuckleball:
		return model.PitchType(code)
	default:
		return model.UnknownType
	}
}

// parsePitchResult classifies the feed's free-text description. Order
// matters: "foul ball" must not match the plain ball branch.
func parsePitchResult(description string) model.PitchResult {
	d := strings.ToLower(description)
	switch {
	case strings.Contains(d, "ball") && !strings.Contains(d, "foul"):
		return model.Ball
	case strings.Contains(d, "called strike"):
		return model.CalledStrike
	case strings.Contains(d, "swinging strike"):
		return model.SwingingStrike
	case strings.Contains(d, "foul"):
		return model.Foul
	case strings.Contains(d, "in play"):
		return model.HitIntoPlay
	case strings.Contains(d, "hit by pitch"):
		return model.HitByPitch
	default:
		return model.Ball
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
