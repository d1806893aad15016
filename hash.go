package gtfs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash"
	"time"
)

// Hash calculates a hash of the dataset using the provided hash function.
//
// Records are hashed in slice order, so two datasets built from the same feed hash equally.
func (d *Dataset) Hash(h hash.Hash) {
	s := hasher{h: h}
	s.dataset(d)
	s.flush()
}

type hasher struct {
	h hash.Hash
	b bytes.Buffer
}

func (h *hasher) flush() {
	h.h.Write(h.b.Bytes())
	h.b.Reset()
}

func (h *hasher) dataset(d *Dataset) {
	h.string(d.Agency.Id)
	h.string(d.Agency.Color)
	h.number(d.Agency.RouteType)
	h.number(int64(len(d.Routes)))
	for i := range d.Routes {
		r := &d.Routes[i]
		h.number(r.Id)
		h.string(r.ShortName)
		h.string(r.LongName)
		h.string(r.Color)
	}
	h.number(int64(len(d.Directions)))
	for i := range d.Directions {
		dir := &d.Directions[i]
		h.number(dir.RouteId)
		h.number(int64(dir.DirectionId))
		h.string(dir.Headsign)
		h.string(string(dir.Bound))
	}
	h.number(int64(len(d.Trips)))
	for i := range d.Trips {
		t := &d.Trips[i]
		h.string(t.Id)
		h.number(t.RouteId)
		h.string(t.ServiceId)
		h.number(int64(t.DirectionId))
		h.string(t.Headsign)
		h.string(string(t.Bound))
	}
	h.number(int64(len(d.Stops)))
	for i := range d.Stops {
		s := &d.Stops[i]
		h.number(int64(s.Id))
		h.string(s.Code)
		h.string(s.Name)
		hashNumberPtr(h, s.Latitude)
		hashNumberPtr(h, s.Longitude)
	}
	h.number(int64(len(d.Services)))
	for i := range d.Services {
		s := &d.Services[i]
		h.string(s.Id)
		for _, day := range []bool{s.Monday, s.Tuesday, s.Wednesday, s.Thursday, s.Friday, s.Saturday, s.Sunday} {
			h.number(day)
		}
		h.time(s.StartDate)
		h.time(s.EndDate)
	}
	h.number(int64(len(d.CalendarDates)))
	for i := range d.CalendarDates {
		c := &d.CalendarDates[i]
		h.string(c.ServiceID)
		h.time(c.Date)
		h.number(c.Exception)
	}
}

func (h *hasher) string(s string) {
	h.number(uint64(len(s)))
	h.flush()
	h.h.Write([]byte(s))
}

func hashNumberPtr[T any](h *hasher, a *T) {
	h.number(a == nil)
	if a != nil {
		h.number(*a)
	}
}

func (h *hasher) number(a any) {
	err := binary.Write(&h.b, binary.LittleEndian, a)
	if err != nil {
		panic(fmt.Sprintf("failed to hash %T", a))
	}
}

func (h *hasher) time(t time.Time) {
	h.number(t.Unix())
}
