package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transitmap/topology/model"
)

const sampleJSON = `{
  "elements": [
    {"type": "node", "id": 1, "lat": 52.5, "lon": 13.4, "tags": {"railway": "station", "station": "subway"}},
    {"type": "way", "id": 2, "nodes": [1, 3]},
    {"type": "relation", "id": 4, "members": [
      {"type": "node", "ref": 1, "role": "stop"},
      {"type": "way", "ref": 2, "role": ""}
    ], "tags": {"type": "route"}}
  ]
}`

func TestLoadParsesAllKinds(t *testing.T) {
	elements, err := Load(strings.NewReader(sampleJSON))
	require.NoError(t, err)
	require.Len(t, elements, 3)

	node := elements[0]
	assert.Equal(t, model.KindNode, node.ID.Kind)
	assert.Equal(t, int64(1), node.ID.Num)
	assert.Equal(t, "subway", node.Tag("station"))

	way := elements[1]
	assert.Equal(t, model.KindWay, way.ID.Kind)
	assert.Equal(t, []int64{1, 3}, way.Nodes)

	rel := elements[2]
	require.Len(t, rel.Members, 2)
	assert.Equal(t, "stop", rel.Members[0].Role)
	assert.Equal(t, model.KindWay, rel.Members[1].Ref.Kind)
}

func TestLoadUnknownElementTypeErrors(t *testing.T) {
	_, err := Load(strings.NewReader(`{"elements":[{"type":"bogus","id":1}]}`))
	assert.Error(t, err)
}

func TestLoadCenterIsParsed(t *testing.T) {
	doc := `{"elements":[{"type":"way","id":1,"center":{"lat":1.5,"lon":2.5}}]}`
	elements, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	require.NotNil(t, elements[0].Center)
	assert.Equal(t, 1.5, elements[0].Center.Lat)
}
