package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/events"
	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal/service"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedMessage is what the event feed writes. Records always hold the user's
// full list so clients replace rather than patch.
type FeedMessage struct {
	Type    string                 `json:"type"`
	Event   *events.Event          `json:"event,omitempty"`
	Records []internal.SleepRecord `json:"records"`
}

// GetSleepEvents upgrades to a websocket that pushes a fresh snapshot of the
// user's records after every change.
func GetSleepEvents(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := c.MustGet("user").(*internal.User)

		userID, err := service.Authorize(user, c.Param("userId"))
		if err != nil {
			HandleServiceError(c, app.Logger(), err, "Failed to open event feed")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			app.Logger().Errorf("[request_id=%s] websocket upgrade failed: %v", c.GetString("request_id"), err)
			return
		}

		sub := app.Events().Subscribe(userID)
		feed := &eventFeed{
			app:    app,
			conn:   conn,
			sub:    sub,
			user:   user,
			userID: userID,
			reqID:  c.GetString("request_id"),
		}
		app.Logger().Infof("[request_id=%s] event feed opened for user %s", feed.reqID, userID)

		go feed.readPump()
		feed.writePump()
	}
}

type eventFeed struct {
	app    App
	conn   *websocket.Conn
	sub    *events.Subscription
	user   *internal.User
	userID string
	reqID  string
}

// readPump drains client frames so pongs and close frames are processed.
// Returning closes the subscription, which stops writePump.
func (f *eventFeed) readPump() {
	defer f.sub.Close()

	f.conn.SetReadLimit(512)
	_ = f.conn.SetReadDeadline(time.Now().Add(pongWait))
	f.conn.SetPongHandler(func(string) error {
		return f.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := f.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.app.Logger().Warnf("[request_id=%s] event feed read error: %v", f.reqID, err)
			}
			return
		}
	}
}

func (f *eventFeed) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		f.sub.Close()
		f.conn.Close()
		f.app.Logger().Infof("[request_id=%s] event feed closed for user %s", f.reqID, f.userID)
	}()

	if err := f.sendSnapshot(nil); err != nil {
		return
	}
	for {
		select {
		case ev, ok := <-f.sub.C:
			if !ok {
				_ = f.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = f.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := f.sendSnapshot(&ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = f.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (f *eventFeed) sendSnapshot(ev *events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()

	records, err := service.ListSleepRecords(ctx, f.app.SleepRepo(), f.user, f.userID, "", "")
	if err != nil {
		f.app.Logger().Errorf("[request_id=%s] event feed snapshot failed: %v", f.reqID, err)
		return err
	}

	_ = f.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := f.conn.WriteJSON(FeedMessage{Type: "snapshot", Event: ev, Records: records}); err != nil {
		f.app.Logger().Warnf("[request_id=%s] event feed write failed: %v", f.reqID, err)
		return err
	}
	return nil
}
