package roster

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const DefaultTitle = "No title"

// PlayerRecord is one element of the "Players" array of /admin/info.
// IsDeadminned is a pointer so a missing field can be told apart from false.
type PlayerRecord struct {
	UserID       string `json:"UserId"`
	Name         string `json:"Name"`
	IsAdmin      bool   `json:"IsAdmin"`
	IsDeadminned *bool  `json:"IsDeadminned"`
}

// Deadminned reports the deadmin flag, treating a missing field as true:
// an admin whose state is unknown is listed rather than hidden.
func (p PlayerRecord) Deadminned() bool {
	if p.IsDeadminned == nil {
		return true
	}
	return *p.IsDeadminned
}

type infoResponse struct {
	Players []*PlayerRecord `json:"Players"`
}

type adminAttributes struct {
	Title    *string `json:"title"`
	IsActive *bool   `json:"isActive"`
}

type adminRecord struct {
	Name       string
	Attributes adminAttributes
}

// adminMap keeps the admins object in document order.
type adminMap []adminRecord

func (m *adminMap) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*m = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.New("admins: expected object")
	}
	var out adminMap
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("admins: unexpected key %v", tok)
		}
		var attrs *adminAttributes
		if err := dec.Decode(&attrs); err != nil {
			return fmt.Errorf("admins[%q]: %w", name, err)
		}
		if attrs == nil {
			return fmt.Errorf("admins[%q]: null entry", name)
		}
		out = append(out, adminRecord{Name: name, Attributes: *attrs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*m = out
	return nil
}

type adminsResponse struct {
	Admins adminMap `json:"admins"`
}

func decodePlayers(body []byte, keep PlayerFilter) (Roster, error) {
	var resp *infoResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Roster{}, fmt.Errorf("decode players: %w", err)
	}
	if resp == nil {
		return Roster{}, errors.New("decode players: null body")
	}
	out := Roster{Kind: KindPlayers}
	for i, rec := range resp.Players {
		if rec == nil {
			return Roster{}, fmt.Errorf("decode players: null record at %d", i)
		}
		if keep != nil && !keep(*rec) {
			continue
		}
		out.Entries = append(out.Entries, Player{Name: rec.Name})
	}
	return out, nil
}

func decodeAdmins(body []byte, defaultTitle string) (Roster, error) {
	var resp *adminsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Roster{}, fmt.Errorf("decode admins: %w", err)
	}
	if resp == nil {
		return Roster{}, errors.New("decode admins: null body")
	}
	if defaultTitle == "" {
		defaultTitle = DefaultTitle
	}
	out := Roster{Kind: KindAdmins}
	for _, rec := range resp.Admins {
		a := Admin{Name: rec.Name, Title: defaultTitle}
		if rec.Attributes.Title != nil && strings.TrimSpace(*rec.Attributes.Title) != "" {
			a.Title = *rec.Attributes.Title
		}
		if rec.Attributes.IsActive != nil {
			a.Active = *rec.Attributes.IsActive
		}
		out.Entries = append(out.Entries, a)
	}
	return out, nil
}
