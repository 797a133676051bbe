package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"kegiatan-backend/app/model"
	"kegiatan-backend/app/service"

	"github.com/gorilla/websocket"
)

const (
	batasWaktuTulis = 10 * time.Second
	batasWaktuPong  = 60 * time.Second
	intervalPing    = (batasWaktuPong * 9) / 10
	maxUkuranPesan  = 64 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin dicek di reverse proxy; token JWT sudah divalidasi middleware.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// eventMasuk adalah amplop event dari client.
// event ∈ {join, send_message, edit_message, delete_message}.
type eventMasuk struct {
	Event       string                    `json:"event"`
	RoomID      string                    `json:"roomId,omitempty"`
	MessageID   string                    `json:"messageId,omitempty"`
	Text        string                    `json:"text,omitempty"`
	Attachments []model.MessageAttachment `json:"attachments,omitempty"`
}

// eventKeluar adalah amplop event ke client / broadcast room.
type eventKeluar struct {
	Event   string      `json:"event"`
	RoomID  string      `json:"roomId,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Client adalah satu koneksi websocket milik satu user terautentikasi.
// Satu client subscribe maksimal satu room; join room lain melepas yang lama.
// Posisi room dipegang hub (bukan field di sini), supaya hanya goroutine hub
// yang menyentuh state subscription.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	chatSvc service.ChatService

	send   chan []byte
	userID string
}

// ServeWS meng-upgrade request HTTP menjadi koneksi websocket dan memulai
// read/write pump. userID diambil dari JWT oleh middleware sebelum sampai sini.
func ServeWS(hub *Hub, chatSvc service.ChatService, w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:     hub,
		conn:    conn,
		chatSvc: chatSvc,
		send:    make(chan []byte, 64),
		userID:  userID,
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump membaca event dari koneksi dan mengeksekusinya satu per satu.
// Satu goroutine per koneksi; keluar loop berarti koneksi ditutup.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxUkuranPesan)
	_ = c.conn.SetReadDeadline(time.Now().Add(batasWaktuPong))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(batasWaktuPong))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  [CHAT] koneksi user %s putus: %v", c.userID, err)
			}
			return
		}

		var ev eventMasuk
		if err := json.Unmarshal(raw, &ev); err != nil {
			c.kirimError("format event tidak valid")
			continue
		}
		c.tangani(ev)
	}
}

// tangani mengeksekusi satu event client. Setiap operasi melewati ChatService,
// yang mengecek ulang membership room per panggilan.
func (c *Client) tangani(ev eventMasuk) {
	ctx := context.Background()

	switch ev.Event {
	case "join":
		if err := c.chatSvc.BolehJoin(ctx, ev.RoomID, c.userID); err != nil {
			c.kirimError(pesanErrorChat(err))
			return
		}
		c.hub.Join(c, ev.RoomID)
		c.hub.Broadcast(ev.RoomID, serialize(eventKeluar{
			Event:  "user_joined",
			RoomID: ev.RoomID,
			Data:   map[string]string{"userId": c.userID},
		}))

	case "send_message":
		pesan, err := c.chatSvc.SendMessage(ctx, ev.RoomID, c.userID, ev.Text, ev.Attachments)
		if err != nil {
			c.kirimError(pesanErrorChat(err))
			return
		}
		// Broadcast di-enqueue per goroutine pengirim setelah persist; dua
		// pengirim bersamaan bisa masuk antrean berbeda urutan dari createdAt.
		// Urutan kanonis room tetap FetchHistory.
		c.hub.Broadcast(pesan.RoomID, serialize(eventKeluar{
			Event:  "new_message",
			RoomID: pesan.RoomID,
			Data:   pesan,
		}))

	case "edit_message":
		pesan, err := c.chatSvc.EditMessage(ctx, ev.MessageID, ev.Text)
		if err != nil {
			c.kirimError(pesanErrorChat(err))
			return
		}
		// Broadcast ke room yang TERSIMPAN di pesan, bukan room yang diklaim
		// client — edit tidak bisa memindahkan pesan antar room.
		c.hub.Broadcast(pesan.RoomID, serialize(eventKeluar{
			Event:  "message_updated",
			RoomID: pesan.RoomID,
			Data:   pesan,
		}))

	case "delete_message":
		pesan, err := c.chatSvc.DeleteMessage(ctx, ev.MessageID)
		if err != nil {
			c.kirimError(pesanErrorChat(err))
			return
		}
		c.hub.Broadcast(pesan.RoomID, serialize(eventKeluar{
			Event:  "message_deleted",
			RoomID: pesan.RoomID,
			Data:   map[string]string{"id": pesan.ID.Hex()},
		}))

	default:
		c.kirimError("event tidak dikenal: " + ev.Event)
	}
}

// writePump mengalirkan isi channel send ke koneksi, plus ping berkala.
func (c *Client) writePump() {
	ticker := time.NewTicker(intervalPing)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(batasWaktuTulis))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(batasWaktuTulis))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// kirimError mengirim event error hanya ke client ini (bukan broadcast).
func (c *Client) kirimError(msg string) {
	select {
	case c.send <- serialize(eventKeluar{Event: "error", Message: msg}):
	default:
	}
}

// pesanErrorChat memetakan sentinel domain ke pesan yang aman dikirim client.
func pesanErrorChat(err error) string {
	switch {
	case errors.Is(err, service.ErrRoomTidakDitemukan),
		errors.Is(err, service.ErrBukanAnggota):
		// Disamakan: tidak membocorkan room mana yang ada.
		return "tidak diizinkan mengakses room ini"
	case errors.Is(err, service.ErrPesanKosong):
		return "teks pesan tidak boleh kosong"
	case errors.Is(err, service.ErrPesanTidakDitemukan):
		return "pesan tidak ditemukan"
	default:
		return "terjadi kesalahan pada server"
	}
}

func serialize(ev eventKeluar) []byte {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("⚠️  [CHAT] gagal serialize event %s: %v", ev.Event, err)
		return []byte(`{"event":"error","message":"internal error"}`)
	}
	return data
}
