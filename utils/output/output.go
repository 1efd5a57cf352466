package output

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/drivesim-oss/entity"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var log = logrus.WithField("module", "output")

const defaultBatchSize = 200

// Record 单车单步的输出文档
type Record struct {
	Step      int32   `bson:"step"`
	T         float64 `bson:"t"`
	VehicleID int32   `bson:"vehicle_id"`
	X         float64 `bson:"x"`
	Y         float64 `bson:"y"`
	Heading   float64 `bson:"heading"` // 车头朝向（度）
	V         float64 `bson:"v"`       // 速度（米/秒）
	Steer     float64 `bson:"steer"`
	Throttle  float64 `bson:"throttle"`
	Brake     float64 `bson:"brake"`
	Reverse   bool    `bson:"reverse"`
	Maneuver  int32   `bson:"maneuver"` // 当前跟踪目标的机动类型
	LaneID    int32   `bson:"lane_id"`  // 当前跟踪目标所在车道
	S         float64 `bson:"s"`        // 当前跟踪目标的车道纵向坐标
}

// Recorder 仿真输出记录器
// 功能：将每步的车辆状态与控制指令批量写入MongoDB
// 说明：未配置输出URI时记录器被禁用，所有方法退化为空操作；
// 攒够一批后整批插入，Close时冲刷残余并断开连接
type Recorder struct {
	client    *mongo.Client
	coll      *mongo.Collection
	batchSize int
	buffer    []interface{}
}

// New 创建输出记录器
// 参数：c-输出配置，job-任务名（作为集合名前缀）
// 返回：记录器指针，输出未配置时返回禁用的记录器（非nil）
func New(c config.Output, job string) *Recorder {
	if c.URI == "" {
		log.Info("output is disabled (no URI configured)")
		return &Recorder{}
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(c.URI))
	if err != nil {
		log.Panicf("output: failed to connect to MongoDB: %v", err)
	}
	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	col := c.Col
	if col == "" {
		col = job + "_vehicle"
	}
	return &Recorder{
		client:    client,
		coll:      client.Database(c.DB).Collection(col),
		batchSize: batchSize,
		buffer:    make([]interface{}, 0, batchSize),
	}
}

// Enabled 查询记录器是否启用
func (r *Recorder) Enabled() bool {
	return r.client != nil
}

// Write 追加一条输出文档
// 说明：记录器禁用时为空操作，缓冲达到批大小时整批写出
func (r *Recorder) Write(step int32, t float64, veh entity.IVehicle, cmd entity.ControlCommand, target entity.IWaypoint, maneuver entity.Maneuver) {
	if r.client == nil {
		return
	}
	pos := veh.Position()
	rec := Record{
		Step:      step,
		T:         t,
		VehicleID: veh.ID(),
		X:         pos.X,
		Y:         pos.Y,
		Heading:   veh.Heading(),
		V:         veh.V(),
		Steer:     cmd.Steer,
		Throttle:  cmd.Throttle,
		Brake:     cmd.Brake,
		Reverse:   cmd.Reverse,
		Maneuver:  int32(maneuver),
	}
	if target != nil {
		rec.LaneID = target.LaneID()
		rec.S = target.S()
	}
	r.buffer = append(r.buffer, rec)
	if len(r.buffer) >= r.batchSize {
		r.flush()
	}
}

func (r *Recorder) flush() {
	if len(r.buffer) == 0 {
		return
	}
	if _, err := r.coll.InsertMany(context.Background(), r.buffer); err != nil {
		// 输出失败不中断仿真，丢弃本批并记录
		log.Errorf("output: failed to insert %d records: %v", len(r.buffer), err)
	}
	r.buffer = r.buffer[:0]
}

// Close 冲刷残余缓冲并断开连接
func (r *Recorder) Close() {
	if r.client == nil {
		return
	}
	r.flush()
	if err := r.client.Disconnect(context.Background()); err != nil {
		log.Errorf("output: failed to disconnect: %v", err)
	}
	r.client = nil
}
