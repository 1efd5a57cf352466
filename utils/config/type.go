package config

// InputPath 指定地图数据来源的配置（MongoDB、文件系统）
// 功能：定义路网输入路径的配置结构，支持两种数据源
// 说明：File非空时优先从YAML文件加载，否则从MongoDB集合加载
type InputPath struct {
	DB   string `yaml:"db"`             // 数据库名
	Col  string `yaml:"col"`            // 集合名
	File string `yaml:"file,omitempty"` // 文件路径（优先级高于MongoDB）
}

// Input 指定测试床所有输入数据的配置项
type Input struct {
	URI string    `yaml:"uri"` // MongoDB连接字符串
	Map InputPath `yaml:"map"` // 路网
}

// Output 指定tick遥测输出的配置项
// 说明：URI为空时禁用输出
type Output struct {
	URI       string `yaml:"uri"`                  // MongoDB连接字符串
	DB        string `yaml:"db"`                   // 数据库名
	Col       string `yaml:"col"`                  // 集合名
	BatchSize int    `yaml:"batch,omitempty"`      // 批量写入条数，默认200
}

// ControlStep 指定模拟时间范围和间隔的配置项
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔（秒），即控制律的dt，默认1/20
}

// Control 模拟器控制配置
type Control struct {
	Step ControlStep `yaml:"step"`
	Seed uint64      `yaml:"seed,omitempty"` // 随机数种子
}

// PIDGains PID控制器增益
type PIDGains struct {
	KP float64 `yaml:"k_p"`
	KD float64 `yaml:"k_d"`
	KI float64 `yaml:"k_i"`
}

// Planner 局部规划器配置，所有字段均可省略
// 功能：以显式命名字段替代散落的字典式覆盖，缺省值在NewRuntimeConfig中一次性解析
type Planner struct {
	TargetSpeed     *float64  `yaml:"target_speed,omitempty"`     // 巡航目标速度（km/h），默认20
	SamplingHorizon *float64  `yaml:"sampling_horizon,omitempty"` // 前向采样时域（秒），采样半径=目标速度(m/s)×时域，默认1
	Lateral         *PIDGains `yaml:"lateral,omitempty"`          // 横向PID增益，默认{1.95, 0.01, 1.4}
	Longitudinal    *PIDGains `yaml:"longitudinal,omitempty"`     // 纵向PID增益，默认{1.0, 0, 1.0}
}

// Vehicle 被控车辆的初始位置配置
type Vehicle struct {
	LaneID *int32  `yaml:"lane_id,omitempty"` // 起始车道，省略则按车道长度加权随机抽取
	S      float64 `yaml:"s,omitempty"`       // 起始S坐标
}

// Config YAML配置文件的根结构
type Config struct {
	Input   Input   `yaml:"input"`             // 输入
	Output  Output  `yaml:"output,omitempty"`  // tick遥测输出
	Control Control `yaml:"control"`           // 模拟过程控制
	Planner Planner `yaml:"planner,omitempty"` // 规划器参数
	Vehicle Vehicle `yaml:"vehicle,omitempty"` // 被控车辆
}
