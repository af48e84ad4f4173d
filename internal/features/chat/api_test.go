package chat

import (
	"context"
	"net"
	"testing"
	"time"

	fastws "github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	common_models "resolvex/internal/common/models"
	"resolvex/pkg/utils"
)

type grantAllService struct{}

func (grantAllService) CanAccess(ctx context.Context, actor *common_models.Actor, complaintID string) error {
	return nil
}

func (grantAllService) Send(ctx context.Context, actor *common_models.Actor, complaintID, body string) (*Message, error) {
	return &Message{Body: body}, nil
}

func (grantAllService) History(ctx context.Context, actor *common_models.Actor, complaintID string) ([]Message, error) {
	return nil, nil
}

func startChatApp(t *testing.T) (*Hub, string) {
	t.Helper()
	utils.SetSecret("test-secret")

	hub := NewHub(zap.NewNop())
	api := NewApi(NewController(grantAllService{}, hub, zap.NewNop()))
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	api.Setup(app)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	return hub, ln.Addr().String()
}

func dialChat(t *testing.T, addr, token string) (*fastws.Conn, error) {
	t.Helper()
	url := "ws://" + addr + "/api/chat/ws?token=" + token

	// The listener goroutine may not be accepting yet; only a refused
	// connection is worth retrying, a completed bad handshake is final.
	var conn *fastws.Conn
	var err error
	for i := 0; i < 50; i++ {
		conn, _, err = fastws.DefaultDialer.Dial(url, nil)
		if err == nil || err == fastws.ErrBadHandshake {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	return conn, err
}

func TestWebSocketJoinReceivesBroadcast(t *testing.T) {
	hub, addr := startChatApp(t)

	access, _, err := utils.GenerateTokenPair(primitive.NewObjectID().Hex(), "user", "user",
		time.Minute, time.Minute)
	if err != nil {
		t.Fatalf("GenerateTokenPair() error = %v", err)
	}

	conn, err := dialChat(t, addr, access)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	complaintID := primitive.NewObjectID().Hex()
	if err := conn.WriteJSON(Frame{Event: "join", ComplaintID: complaintID}); err != nil {
		t.Fatalf("write join: %v", err)
	}

	var frame Frame
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read join ack: %v", err)
	}
	if frame.Event != "joined" || frame.ComplaintID != complaintID {
		t.Fatalf("join ack = %+v, want joined for %s", frame, complaintID)
	}

	hub.Broadcast(RoomName(complaintID), Frame{Event: "new_message", ComplaintID: complaintID})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if frame.Event != "new_message" || frame.ComplaintID != complaintID {
		t.Errorf("broadcast frame = %+v, want new_message for %s", frame, complaintID)
	}
}

func TestWebSocketRejectsInvalidToken(t *testing.T) {
	_, addr := startChatApp(t)

	if conn, err := dialChat(t, addr, "garbage"); err == nil {
		conn.Close()
		t.Fatal("handshake with a bad token should fail")
	}
}
