package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed baseline data if DB is empty (products/settings/bookings)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Catalog
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  name_en TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL,
  type TEXT NOT NULL CHECK (type IN ('WALL','CASSETTE','PORTABLE')),
  btu INTEGER NOT NULL CHECK (btu > 0),
  seer NUMERIC NOT NULL DEFAULT 0,
  price NUMERIC NOT NULL CHECK (price >= 0),
  cost NUMERIC NOT NULL DEFAULT 0,
  inverter INTEGER NOT NULL DEFAULT 0,
  features_json TEXT NOT NULL DEFAULT '[]',
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  min_stock INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'OUT_OF_STOCK',
  image TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_brand      ON products(brand);
CREATE INDEX IF NOT EXISTS idx_products_type       ON products(type);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- Service bookings (installation / cleaning / repair)
CREATE TABLE IF NOT EXISTS bookings(
  id TEXT PRIMARY KEY,
  customer_name TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  address TEXT NOT NULL DEFAULT '',
  service_type TEXT NOT NULL CHECK (service_type IN ('INSTALL','CLEANING','REPAIR')),
  date TEXT NOT NULL,
  time TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'PENDING'
    CHECK (status IN ('PENDING','CONFIRMED','IN_PROGRESS','COMPLETED','CANCELED')),
  technician TEXT NOT NULL DEFAULT '',
  note TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date, time);

-- Flat site settings
CREATE TABLE IF NOT EXISTS settings(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL DEFAULT 'text'
);

-- Stock adjustment audit trail
CREATE TABLE IF NOT EXISTS stock_movements(
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  delta INTEGER NOT NULL,
  direction TEXT NOT NULL CHECK (direction IN ('IN','OUT')),
  reason TEXT NOT NULL DEFAULT '',
  actor TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_stock_movements_product ON stock_movements(product_id);

-- One durable cart snapshot per session key
CREATE TABLE IF NOT EXISTS cart_snapshots(
  session_id TEXT PRIMARY KEY,
  payload TEXT NOT NULL DEFAULT '[]',
  updated_at TEXT
);

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  phone TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_phone ON users(phone);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- token sid claim
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- One-time phone codes and password reset tokens
CREATE TABLE IF NOT EXISTS otp_codes(
  phone TEXT PRIMARY KEY,
  code_hash TEXT NOT NULL,
  expires_at TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS reset_tokens(
  token TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  expires_at TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products/settings/bookings")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,name_en,brand,type,btu,seer,price,cost,inverter,features_json,stock,min_stock,status,image,description) VALUES
	  ('dk-ftkq09','แอร์ Daikin FTKQ09 9000 BTU','Daikin FTKQ09','Daikin','WALL',9000,18.0,14900,11200,1,
	   '["Smart Inverter","PM2.5 filter","R32"]',8,3,'IN_STOCK','products/dk-ftkq09/main.jpg','แอร์ติดผนังประหยัดไฟเบอร์ 5'),
	  ('ms-gr13','แอร์ Mitsubishi Mr.Slim GR13 12000 BTU','Mitsubishi Mr.Slim GR13','Mitsubishi','WALL',12000,17.2,18500,14000,1,
	   '["Fast cooling","Anti-bacteria filter"]',2,3,'LOW_STOCK','products/ms-gr13/main.jpg','รุ่นยอดนิยม เงียบ ทนทาน'),
	  ('cr-x42','แอร์ Carrier X-Inverter 42TVAB 18000 BTU','Carrier X-Inverter 42TVAB','Carrier','WALL',18000,16.5,26900,21000,1,
	   '["WiFi control","Self cleaning"]',0,2,'OUT_OF_STOCK','products/cr-x42/main.jpg','เหมาะกับห้องนั่งเล่นขนาดใหญ่'),
	  ('tcl-p09','แอร์ TCL TAC-09 9000 BTU','TCL TAC-09','TCL','PORTABLE',9000,13.0,8990,6500,0,
	   '["Movable","Easy install"]',15,4,'IN_STOCK','products/tcl-p09/main.jpg','แอร์เคลื่อนที่ราคาประหยัด')`)

	tx.MustExec(`INSERT INTO settings(key,value,type) VALUES
	  ('site_name_th','แอร์ดี เซลส์แอนด์เซอร์วิส','text'),
	  ('contact_phone','02-123-4567','text'),
	  ('line_id','@airdee','text')`)

	tx.MustExec(`INSERT INTO bookings(id,customer_name,customer_phone,address,service_type,date,time,status,technician) VALUES
	  ('bk-0001','คุณสมชาย','+66812340001','ลาดพร้าว 71 กรุงเทพฯ','INSTALL','2026-09-03','10:00','CONFIRMED','ช่างโอ๊ต'),
	  ('bk-0002','คุณมาลี','+66812340002','บางนา กรุงเทพฯ','CLEANING','2026-09-02','14:00','PENDING','')`)

	return tx.Commit()
}

// seedUsers ensures a demo customer and one ADMIN exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Phone, Name, Role, Hash string
	}
	mk := func(id, email, phone, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Phone: phone, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-somsak", "somsak@airdee.test", "+66812345678", "Somsak", "USER", "Passw0rd!"),
		mk("u-admin", "admin@airdee.test", "", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,phone,name,password_hash,role)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Phone, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
