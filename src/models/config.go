package models

// MConfig Structure
type MConfig struct {
	Name      string              `yaml:"name"`
	Host      string              `yaml:"host"`
	Port      int                 `yaml:"port"`
	LogLevel  string              `yaml:"log_level"`
	GrpcHost  string              `yaml:"grpc_host"`
	GrpcPort  int                 `yaml:"grpc_port"`
	Storage   MStorageConfig      `yaml:"storage"`
	Engine    MEngineConfig       `yaml:"engine"`
	Tokens    []MTokenPriceConfig `yaml:"tokens"`
	AMM       MAMMConfig          `yaml:"amm"`
	Publisher MPublisherConfig    `yaml:"publisher"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"` // memory | sqlite | postgres | redis
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RedisAddr          string `yaml:"redis_addr"`
	RedisPassword      string `yaml:"redis_password"`
	RedisDB            int    `yaml:"redis_db"`
	KeyPrefix          string `yaml:"key_prefix"`
}

type MEngineConfig struct {
	TickIntervalSeconds int    `yaml:"tick_interval_seconds"`
	HistoryCapacity     int    `yaml:"history_capacity"`
	Seed                uint64 `yaml:"seed"`         // 0 = seeded from the clock
	ChartVolume         string `yaml:"chart_volume"` // random | recorded
	MarketHoursOnly     bool   `yaml:"market_hours_only"`
	CalendarMIC         string `yaml:"calendar_mic"`
}

type MAMMConfig struct {
	FeePercent             float64       `yaml:"fee_percent"`
	DefaultSlippagePercent float64       `yaml:"default_slippage_percent"`
	FeeToLiquidity         bool          `yaml:"fee_to_liquidity"`
	Pools                  []MPoolConfig `yaml:"pools"`
}

type MPoolConfig struct {
	Name        string  `yaml:"name"`
	QuoteSymbol string  `yaml:"quote_symbol"`
	BaseSymbol  string  `yaml:"base_symbol"`
	ReserveIn   float64 `yaml:"reserve_in"`
	ReserveOut  float64 `yaml:"reserve_out"`
}

type MPublisherConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}
