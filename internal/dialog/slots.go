package dialog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type slotKind uint8

const (
	slotUnset slotKind = iota
	slotText
	slotFlag
)

// Slot — значение слота: Unset | Text(string) | Flag(bool)
type Slot struct {
	kind slotKind
	text string
	flag bool
}

func Unset() Slot { return Slot{} }

// Text возвращает Unset для пустой строки.
func Text(s string) Slot {
	s = strings.TrimSpace(s)
	if s == "" {
		return Slot{}
	}
	return Slot{kind: slotText, text: s}
}

func Flag(b bool) Slot { return Slot{kind: slotFlag, flag: b} }

// Filled — единый предикат заполненности для планировщика.
func (s Slot) Filled() bool { return s.kind != slotUnset }

// True — слот-флаг выставлен в true.
func (s Slot) True() bool { return s.kind == slotFlag && s.flag }

func (s Slot) String() string {
	switch s.kind {
	case slotText:
		return s.text
	case slotFlag:
		if s.flag {
			return "true"
		}
		return "false"
	}
	return ""
}

func (s Slot) MarshalJSON() ([]byte, error) {
	switch s.kind {
	case slotText:
		return json.Marshal(s.text)
	case slotFlag:
		return json.Marshal(s.flag)
	}
	return []byte("null"), nil
}

func (s *Slot) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = Unset()
		return nil
	}
	var flag bool
	if err := json.Unmarshal(b, &flag); err == nil {
		*s = Flag(flag)
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return fmt.Errorf("slot: expected null, bool or string, got %s", b)
	}
	*s = Text(text)
	return nil
}

type SlotName string

const (
	SlotBusinessType     SlotName = "businessType"
	SlotPrimaryNeed      SlotName = "primaryNeed"
	SlotWantsWebsite     SlotName = "wantsWebsite"
	SlotWantsWhatsappBot SlotName = "wantsWhatsappBot"
	SlotOrderingSystem   SlotName = "orderingSystem"
	SlotBookingSystem    SlotName = "bookingSystem"
	SlotBudget           SlotName = "budget"
	SlotTimeline         SlotName = "timeline"
	SlotFeatures         SlotName = "features"
)

var slotOrder = []SlotName{
	SlotBusinessType,
	SlotPrimaryNeed,
	SlotWantsWhatsappBot,
	SlotWantsWebsite,
	SlotOrderingSystem,
	SlotBookingSystem,
	SlotBudget,
	SlotTimeline,
	SlotFeatures,
}

type Slots struct {
	BusinessType     Slot `json:"businessType"`
	PrimaryNeed      Slot `json:"primaryNeed"`
	WantsWhatsappBot Slot `json:"wantsWhatsappBot"`
	WantsWebsite     Slot `json:"wantsWebsite"`
	OrderingSystem   Slot `json:"orderingSystem"`
	BookingSystem    Slot `json:"bookingSystem"`
	Budget           Slot `json:"budget"`
	Timeline         Slot `json:"timeline"`
	Features         Slot `json:"features"`
}

func (s *Slots) ref(name SlotName) *Slot {
	switch name {
	case SlotBusinessType:
		return &s.BusinessType
	case SlotPrimaryNeed:
		return &s.PrimaryNeed
	case SlotWantsWebsite:
		return &s.WantsWebsite
	case SlotWantsWhatsappBot:
		return &s.WantsWhatsappBot
	case SlotOrderingSystem:
		return &s.OrderingSystem
	case SlotBookingSystem:
		return &s.BookingSystem
	case SlotBudget:
		return &s.Budget
	case SlotTimeline:
		return &s.Timeline
	case SlotFeatures:
		return &s.Features
	}
	return nil
}

func (s Slots) Get(name SlotName) Slot {
	if p := s.ref(name); p != nil {
		return *p
	}
	return Unset()
}

// SetIfEmpty пишет значение только в незаполненный слот.
func (s *Slots) SetIfEmpty(name SlotName, v Slot) bool {
	p := s.ref(name)
	if p == nil || p.Filled() || !v.Filled() {
		return false
	}
	*p = v
	return true
}

// Raise выставляет флаг в true; true уже не понижается.
func (s *Slots) Raise(name SlotName) {
	if p := s.ref(name); p != nil && !p.True() {
		*p = Flag(true)
	}
}

// SlotWrite — одна запись, предложенная классификатором.
type SlotWrite struct {
	Name  SlotName
	Value Slot
}

// Apply применяет пассивные записи: текстовые слоты write-once-if-empty, флаги только поднимаются.
func (s *Slots) Apply(writes []SlotWrite) {
	for _, w := range writes {
		if w.Value.kind == slotFlag {
			if w.Value.flag {
				s.Raise(w.Name)
			}
			continue
		}
		s.SetIfEmpty(w.Name, w.Value)
	}
}

func (s Slots) FilledNames() []string {
	out := make([]string, 0, len(slotOrder))
	for _, name := range slotOrder {
		if s.Get(name).True() || s.Get(name).kind == slotText {
			out = append(out, string(name))
		}
	}
	return out
}
