package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-restaurant-orders/common"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

type ownerRooms struct {
	owner primitive.ObjectID
	orgs  map[primitive.ObjectID]bool
}

func (o ownerRooms) VerifyOrg(_ context.Context, userID, orgID primitive.ObjectID) error {
	if userID != o.owner || !o.orgs[orgID] {
		return common.ErrOrgNotFound
	}
	return nil
}

func hubServer(t *testing.T, hub *Hub, rooms RoomVerifier, uid primitive.ObjectID) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", func(c *gin.Context) { c.Set("uid", uid.Hex()) }, hub.HandleWebSocket(rooms))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestHub_DeliversOnlyToRoom(t *testing.T) {
	owner, orgA, orgB := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	hub := NewHub(quietLogger(), []string{"*"})
	srv := hubServer(t, hub, ownerRooms{owner: owner, orgs: map[primitive.ObjectID]bool{orgA: true, orgB: true}}, owner)

	inRoom := dial(t, srv, "?org="+orgA.Hex())
	otherRoom := dial(t, srv, "?org="+orgB.Hex())

	require.Eventually(t, func() bool { return hub.Clients() == 2 }, time.Second, 10*time.Millisecond)

	hub.Emit(orgA.Hex(), OrderCreated, map[string]string{"table": "3"})

	require.NoError(t, inRoom.SetReadDeadline(time.Now().Add(time.Second)))
	_, data, err := inRoom.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, OrderCreated, msg.Event)
	assert.Equal(t, orgA.Hex(), msg.Room)

	require.NoError(t, otherRoom.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = otherRoom.ReadMessage()
	assert.Error(t, err)
}

func TestHub_RejectsForeignOrMissingRoom(t *testing.T) {
	owner, org := primitive.NewObjectID(), primitive.NewObjectID()
	hub := NewHub(quietLogger(), []string{"*"})
	rooms := ownerRooms{owner: owner, orgs: map[primitive.ObjectID]bool{org: true}}

	cases := []struct {
		name   string
		uid    primitive.ObjectID
		query  string
		status int
	}{
		{"no room", owner, "", http.StatusBadRequest},
		{"unknown org", owner, "?org=" + primitive.NewObjectID().Hex(), http.StatusNotFound},
		{"other user", primitive.NewObjectID(), "?org=" + org.Hex(), http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := hubServer(t, hub, rooms, tc.uid)
			url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + tc.query
			_, resp, err := websocket.DefaultDialer.Dial(url, nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
	assert.Zero(t, hub.Clients())
}

func TestHub_SlowClientIsDroppedWithoutBlocking(t *testing.T) {
	hub := NewHub(quietLogger(), []string{"*"})
	stalled := &client{room: "org-a", send: make(chan []byte, 1)}
	hub.register(stalled)

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendBuffer+1; i++ {
			hub.Emit("org-a", OrderCreated, nil)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a stalled client")
	}
	assert.Zero(t, hub.Clients())
	_, open := <-stalled.send
	assert.True(t, open)
	_, open = <-stalled.send
	assert.False(t, open)
}

type recordingEmitter struct {
	events []string
}

func (r *recordingEmitter) Emit(room, event string, payload interface{}) {
	r.events = append(r.events, room+":"+event)
}

func TestMulti_FansOut(t *testing.T) {
	a, b := &recordingEmitter{}, &recordingEmitter{}
	Multi{a, b}.Emit("org", DayRestarted, nil)
	assert.Equal(t, []string{"org:" + DayRestarted}, a.events)
	assert.Equal(t, []string{"org:" + DayRestarted}, b.events)
}

type fakeChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return f.err
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisher_PublishesJSONMessage(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "orders_fanout", log: quietLogger()}

	p.Emit("org-a", OrderCreated, map[string]int{"items": 2})

	require.Len(t, ch.published, 1)
	assert.Equal(t, "org-a", ch.keys[0])
	assert.Equal(t, OrderCreated, ch.published[0].Type)
	assert.JSONEq(t, `{"event":"orders@new","room":"org-a","payload":{"items":2}}`, string(ch.published[0].Body))
}

func TestAMQPPublisher_SwallowsPublishErrors(t *testing.T) {
	ch := &fakeChannel{err: errors.New("channel closed")}
	p := &AMQPPublisher{ch: ch, exchange: "orders_fanout", log: quietLogger()}
	assert.NotPanics(t, func() { p.Emit("org-a", DayRestarted, nil) })
}
