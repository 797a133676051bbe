package websocket

import "log"

// pesanRoom adalah unit broadcast: payload JSON yang sudah di-serialize,
// ditujukan ke satu room.
type pesanRoom struct {
	roomID string
	data   []byte
}

// permintaanJoin membawa perpindahan room ke goroutine Run. Room asal tidak
// ikut dikirim: hub sendiri yang tahu client sedang subscribe di mana.
type permintaanJoin struct {
	client *Client
	roomID string
}

// Hub memegang daftar client per room dan menyalurkan broadcast.
// Semua mutasi state (register, unregister, join, broadcast) diproses satu
// goroutine lewat channel, jadi urutan broadcast dalam satu room mengikuti
// urutan pesan dipersist — tanpa mutex di jalur kirim.
type Hub struct {
	// rooms: roomID -> set client yang sedang subscribe room itu.
	rooms map[string]map[*Client]bool
	// posisi: client terdaftar -> room yang sedang di-subscribe ("" = belum
	// join). Hanya goroutine Run yang menyentuh map ini; client tidak
	// menyimpan posisi room sendiri.
	posisi map[*Client]string

	register   chan *Client
	unregister chan *Client
	join       chan permintaanJoin
	broadcast  chan pesanRoom
}

// NewHub membuat hub kosong. Jalankan Run sebagai goroutine dari main.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		posisi:     make(map[*Client]string),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan permintaanJoin),
		broadcast:  make(chan pesanRoom, 256),
	}
}

// Run adalah event loop hub; hub hidup selama proses.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			// Koneksi baru belum subscribe room mana pun (tidak ada default
			// group) — client harus join eksplisit dulu.
			h.posisi[client] = ""

		case client := <-h.unregister:
			h.putuskan(client)

		case req := <-h.join:
			roomLama, terdaftar := h.posisi[req.client]
			if !terdaftar {
				// Client keburu diputus (mis. dievict karena buffer penuh)
				// sebelum join-nya sempat diproses.
				break
			}
			// Join room baru melepas subscription room sebelumnya.
			h.keluarkanDariRoom(req.client, roomLama)
			if h.rooms[req.roomID] == nil {
				h.rooms[req.roomID] = make(map[*Client]bool)
			}
			h.rooms[req.roomID][req.client] = true
			h.posisi[req.client] = req.roomID
			log.Printf("💬 [CHAT] user %s join room %s", req.client.userID, req.roomID)

		case msg := <-h.broadcast:
			for client := range h.rooms[msg.roomID] {
				select {
				case client.send <- msg.data:
				default:
					// Buffer client penuh: koneksi dianggap macet, diputus
					// supaya tidak menahan broadcast room.
					h.putuskan(client)
				}
			}
		}
	}
}

// putuskan mencabut registrasi client: keluar dari room-nya, lalu menutup
// channel send tepat satu kali. No-op untuk client yang sudah diputus, jadi
// unregister yang menyusul setelah evict aman.
func (h *Hub) putuskan(client *Client) {
	roomID, terdaftar := h.posisi[client]
	if !terdaftar {
		return
	}
	h.keluarkanDariRoom(client, roomID)
	delete(h.posisi, client)
	close(client.send)
}

// keluarkanDariRoom mengeluarkan client dari satu room; room kosong dihapus.
func (h *Hub) keluarkanDariRoom(client *Client, roomID string) {
	if roomID == "" {
		return
	}
	if clients, ok := h.rooms[roomID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Join memindahkan subscription client ke roomID.
// Aman dipanggil dari goroutine mana pun; eksekusinya di goroutine Run.
func (h *Hub) Join(client *Client, roomID string) {
	h.join <- permintaanJoin{client: client, roomID: roomID}
}

// Broadcast mengirim payload ke seluruh subscriber room.
// Aman dipanggil dari goroutine mana pun.
func (h *Hub) Broadcast(roomID string, data []byte) {
	h.broadcast <- pesanRoom{roomID: roomID, data: data}
}
