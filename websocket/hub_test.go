package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buatClientUji(userID string, buffer int) *Client {
	return &Client{send: make(chan []byte, buffer), userID: userID}
}

// terima menunggu satu payload broadcast sampai ke client.
func terima(t *testing.T, c *Client) string {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "channel send sudah ditutup")
		return string(data)
	case <-time.After(time.Second):
		t.Fatal("timeout menunggu broadcast")
		return ""
	}
}

func TestJoinRoomBaruMelepasRoomLama(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	pengamat := buatClientUji("pengamat", 8)
	pindah := buatClientUji("pindah", 8)
	hub.register <- pengamat
	hub.register <- pindah

	hub.Join(pengamat, "room-a")
	hub.Join(pindah, "room-a")
	hub.Join(pindah, "room-b")

	hub.Broadcast("room-a", []byte("khusus-a"))
	hub.Broadcast("room-b", []byte("khusus-b"))

	assert.Equal(t, "khusus-a", terima(t, pengamat))
	// Broadcast room-a diproses lebih dulu dari room-b; kalau client yang
	// sudah pindah masih subscribe room lama, pesan pertamanya "khusus-a".
	assert.Equal(t, "khusus-b", terima(t, pindah))
}

func TestBroadcastSetelahClientPindahLaluPutus(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tinggal := buatClientUji("tinggal", 8)
	putus := buatClientUji("putus", 8)
	hub.register <- tinggal
	hub.register <- putus

	hub.Join(tinggal, "room-a")
	hub.Join(putus, "room-a")
	hub.Join(putus, "room-b")
	hub.unregister <- putus

	// Room lama tidak boleh menyimpan sisa subscription client yang sudah
	// pindah: broadcast berikutnya harus tetap jalan, bukan mengirim ke
	// channel yang sudah ditutup.
	hub.Broadcast("room-a", []byte("masih-hidup"))
	assert.Equal(t, "masih-hidup", terima(t, tinggal))

	_, ok := <-putus.send
	assert.False(t, ok, "channel client yang putus harus ditutup")
}

func TestClientLambatDievictTanpaMenahanRoom(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	pengamat := buatClientUji("pengamat", 8)
	lambat := buatClientUji("lambat", 1)
	hub.register <- pengamat
	hub.register <- lambat

	hub.Join(pengamat, "room-a")
	hub.Join(lambat, "room-a")

	hub.Broadcast("room-a", []byte("pertama")) // memenuhi buffer client lambat
	hub.Broadcast("room-a", []byte("kedua"))   // buffer penuh: lambat dievict
	hub.Broadcast("room-a", []byte("ketiga"))

	assert.Equal(t, "pertama", terima(t, pengamat))
	assert.Equal(t, "kedua", terima(t, pengamat))
	assert.Equal(t, "ketiga", terima(t, pengamat))

	// Client lambat hanya kebagian isi buffer sebelum channel-nya ditutup.
	assert.Equal(t, "pertama", terima(t, lambat))
	_, ok := <-lambat.send
	assert.False(t, ok, "channel client lambat harus ditutup saat evict")

	// readPump client yang dievict akhirnya mengirim unregister; channel
	// tidak boleh ditutup dua kali.
	hub.unregister <- lambat
	hub.Broadcast("room-a", []byte("keempat"))
	assert.Equal(t, "keempat", terima(t, pengamat))
}

func TestUnregisterSebelumJoin(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := buatClientUji("baru", 8)
	hub.register <- c
	hub.unregister <- c

	_, ok := <-c.send
	assert.False(t, ok, "channel harus ditutup meski belum pernah join")
}
