package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/calcio/internal/domain/model"
)

func dialHub(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForClients(hub *Hub, want int) {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.Clients() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHubBroadcast(t *testing.T) {
	Convey("Given a running hub", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := NewHub()
		go hub.Run(ctx)

		Convey("a full broadcast queue never blocks the caller", func() {
			for i := 0; i < broadcastBuffer*2; i++ {
				hub.Broadcast(Message{Kind: KindPhase, Season: 1})
			}
			So(hub.Clients(), ShouldEqual, 0)
		})

		Convey("the result envelope carries the fixture matchday", func() {
			res := &model.MatchResult{
				Fixture:   model.Fixture{Matchday: 4, Home: "AAA", Away: "BBB"},
				HomeGoals: 2, AwayGoals: 1,
			}
			msg := Message{Kind: KindResult, Season: 1, Matchday: res.Fixture.Matchday, Data: res}
			data, err := json.Marshal(msg)
			So(err, ShouldBeNil)
			So(string(data), ShouldContainSubstring, `"matchday":4`)
			So(string(data), ShouldContainSubstring, `"kind":"result"`)
		})
	})
}

func TestHubSubscription(t *testing.T) {
	Convey("Given a subscriber over a real socket", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		hub := NewHub()
		go hub.Run(ctx)

		ts := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
		defer ts.Close()

		conn := dialHub(t, ts.URL)
		defer conn.Close()

		waitForClients(hub, 1)
		So(hub.Clients(), ShouldEqual, 1)

		Convey("broadcast messages arrive decoded", func() {
			hub.BroadcastResult(1, &model.MatchResult{
				Fixture:   model.Fixture{Matchday: 2, Home: "AAA", Away: "BBB"},
				HomeGoals: 3,
			})

			So(conn.SetReadDeadline(time.Now().Add(2*time.Second)), ShouldBeNil)
			_, data, err := conn.ReadMessage()
			So(err, ShouldBeNil)

			var msg Message
			So(json.Unmarshal(data, &msg), ShouldBeNil)
			So(msg.Kind, ShouldEqual, KindResult)
			So(msg.Matchday, ShouldEqual, 2)
		})

		Convey("disconnecting unregisters the client", func() {
			So(conn.Close(), ShouldBeNil)
			waitForClients(hub, 0)
			So(hub.Clients(), ShouldEqual, 0)
		})
	})
}
