package codec

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

func TestDecodeLenient(t *testing.T) {
	doc := []byte(`{
		"seats": [
			{"id": "s1", "x": 100, "y": "120.5", "row": "A", "number": 1, "type": "vip", "sectionId": "front", "isOccupied": true},
			{"id": "s2", "x": "abc", "y": null, "row_label": "B", "seat_number": "7", "seat_type": "disabled"},
			{"id": "s3", "type": "golden"},
			"not a seat"
		],
		"sections": [
			{"id": "front", "name": "Front", "color": "#fff", "customPrice": 12.5},
			{"name": "no id"},
			{"id": "back", "custom_price_cents": 900}
		],
		"venueElements": [{"id": "e1", "type": "STAGE", "x": 1, "y": 2, "width": 3, "height": 4}],
		"canvasSize": {"width": 1024, "height": "bad"},
		"show_entrance": false,
		"showGrid": "nope",
		"gridSize": 25,
		"metadata": {"name": "Hall", "totalSeats": 999}
	}`)

	snap, err := DecodeSnapshot(doc)
	require.NoError(t, err)

	require.Len(t, snap.Seats, 3)
	assert.Equal(t, model.Seat{ID: "s1", X: 100, Y: 120.5, Row: "A", Number: "1", Type: model.SeatVIP, SectionID: "front", Occupied: true}, snap.Seats[0])
	assert.Equal(t, model.Seat{ID: "s2", Row: "B", Number: "7", Type: model.SeatAccessible}, snap.Seats[1])
	assert.Equal(t, model.SeatStandard, snap.Seats[2].Type)

	require.Len(t, snap.Sections, 2)
	require.NotNil(t, snap.Sections[0].CustomPriceCents)
	assert.Equal(t, int64(1250), *snap.Sections[0].CustomPriceCents)
	assert.Equal(t, int64(900), *snap.Sections[1].CustomPriceCents)

	require.Len(t, snap.VenueElements, 1)
	assert.Equal(t, model.ElementStage, snap.VenueElements[0].Kind)

	assert.Equal(t, model.CanvasSize{Width: 1024}, snap.CanvasSize)
	assert.False(t, snap.ShowEntrance)
	assert.True(t, snap.ShowGrid, "malformed flag keeps its default")
	assert.Equal(t, 25.0, snap.GridSize)
	assert.Equal(t, "Hall", snap.Metadata.Name)
}

func TestDecodeEmptyObjectDefaults(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, snap.Seats)
	assert.True(t, snap.ShowEntrance)
	assert.True(t, snap.ShowGrid)

	l := layout.FromSnapshot(snap)
	assert.Zero(t, l.SeatCount())
	assert.Len(t, l.Sections(), 1)
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, doc := range []string{``, `[]`, `"x"`, `null`, `{broken`} {
		_, err := DecodeSnapshot([]byte(doc))
		assert.ErrorIs(t, err, ErrNotObject, doc)
	}
}

func TestEncodeThenDecodeKeepsLayout(t *testing.T) {
	l := layout.New("Main")
	_, err := l.AddSection(model.Section{ID: "vip", Name: "VIP", Color: "#ef4444"})
	require.NoError(t, err)
	_, err = l.AddRow(layout.RowSpec{Label: "A", Count: 3, SectionID: "vip", Type: model.SeatPremium})
	require.NoError(t, err)
	l.Settings.ShowGrid = false

	js, err := EncodeSnapshot(l.Snapshot())
	require.NoError(t, err)
	snap, err := DecodeSnapshot(js)
	require.NoError(t, err)
	back := layout.FromSnapshot(snap)

	assert.Equal(t, l.Seats(), back.Seats())
	assert.Equal(t, l.Sections(), back.Sections())
	assert.Equal(t, "Main", back.Name)
	assert.False(t, back.Settings.ShowGrid)
}

func TestEncodeEmptyUsesArrays(t *testing.T) {
	js, err := EncodeSnapshot(model.Snapshot{})
	require.NoError(t, err)
	assert.Contains(t, string(js), `"seats":[]`)
	assert.Contains(t, string(js), `"venueElements":[]`)
}

func TestCompress(t *testing.T) {
	data := bytes.Repeat([]byte(`{"id":"seat","x":200,"y":200}`), 200)
	packed := Compress(data)
	assert.Less(t, len(packed), len(data))

	out, err := Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, data, out)

	plain := []byte(`{"seats":[]}`)
	out, err = Decompress(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out, "legacy uncompressed blobs pass through")

	_, err = Decompress(append(append([]byte{}, zstdMagic...), 1, 2, 3))
	assert.Error(t, err)
}

func TestPackUnpack(t *testing.T) {
	l := layout.New("")
	_, err := l.AddRow(layout.RowSpec{Label: "A", Count: 5})
	require.NoError(t, err)

	blob, err := Pack(l.Snapshot())
	require.NoError(t, err)
	assert.Len(t, blob.Fingerprint, 64)
	assert.Positive(t, blob.Size)

	again, err := Pack(l.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, blob.Fingerprint, again.Fingerprint)

	snap, err := Unpack(blob.Data)
	require.NoError(t, err)
	assert.Len(t, snap.Seats, 5)
}

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("a"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Fingerprint([]byte("a")))
	assert.NotEqual(t, a, Fingerprint([]byte("b")))
	assert.Equal(t, `"`+a[:32]+`"`, ETag(a))
	assert.Equal(t, `"abc"`, ETag("abc"))
}

func TestCachedResponse(t *testing.T) {
	h := http.Header{"Content-Type": {"application/json"}, "X-Seatmap": {"1", "2"}}
	data, err := EncodeResponse(200, h, []byte(`{"ok":true}`))
	require.NoError(t, err)

	again, err := EncodeResponse(200, h, []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, data, again, "deterministic encoding")

	r, err := DecodeResponse(data)
	require.NoError(t, err)
	assert.Equal(t, 200, r.Status)
	assert.Equal(t, []string{"1", "2"}, r.Header["X-Seatmap"])
	assert.Equal(t, `{"ok":true}`, string(r.Body))

	_, err = DecodeResponse([]byte{0xff})
	assert.Error(t, err)
	bad, _ := MarshalCBOR(CachedResponse{Status: 7})
	_, err = DecodeResponse(bad)
	assert.Error(t, err)
}
