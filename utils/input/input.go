package input

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/drivesim-oss/utils/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v2"
)

var log = logrus.WithField("module", "input")

// Point 路网折线节点坐标
type Point struct {
	X float64 `yaml:"x" bson:"x"`
	Y float64 `yaml:"y" bson:"y"`
	Z float64 `yaml:"z,omitempty" bson:"z,omitempty"`
}

// Lane 路网车道的输入描述
// 说明：车道中心线为折线，后继车道超过一个时表示该车道末端是一个路口分叉
type Lane struct {
	ID         int32   `yaml:"id" bson:"id"`                 // 车道ID
	MaxV       float64 `yaml:"max_v" bson:"max_v"`           // 车道限速（米/秒）
	Line       []Point `yaml:"line" bson:"line"`             // 中心线折线
	Successors []int32 `yaml:"successors" bson:"successors"` // 后继车道ID列表
}

// MapData 路网输入数据
type MapData struct {
	Lanes []Lane `yaml:"lanes" bson:"lanes"`
}

// Input 输入数据
// 功能：存储测试床启动所需的所有输入数据
type Input struct {
	Map *MapData
}

// Init 加载输入数据
// 功能：根据配置从YAML文件或MongoDB加载路网数据
// 参数：c-配置对象
// 返回：加载完成的输入数据指针
// 算法说明：
// 1. 如果配置了地图文件路径，从文件加载（优先）
// 2. 否则建立MongoDB连接，从指定集合加载车道文档
// 3. 校验路网非空、后继引用均存在
// 说明：输入不合法时无恢复可能，直接panic
func Init(c config.Config) (res *Input) {
	res = &Input{}
	if c.Input.Map.File != "" {
		res.Map = loadMapFromFile(c.Input.Map.File)
	} else if c.Input.URI != "" {
		res.Map = loadMapFromMongo(c.Input.URI, c.Input.Map)
	} else {
		log.Panic("input: either a map file or a MongoDB URI must be configured")
	}
	validateMap(res.Map)
	return
}

func loadMapFromFile(path string) *MapData {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Panicf("input: failed to read map file: %v", err)
	}
	var m MapData
	if err := yaml.UnmarshalStrict(data, &m); err != nil {
		log.Panicf("input: failed to parse map file: %v", err)
	}
	return &m
}

func loadMapFromMongo(uri string, path config.InputPath) *MapData {
	ctx := context.Background()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Panicf("input: failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)
	coll := client.Database(path.DB).Collection(path.Col)
	cursor, err := coll.Find(ctx, bson.D{})
	if err != nil {
		log.Panicf("input: failed to query map collection %v.%v: %v", path.DB, path.Col, err)
	}
	defer cursor.Close(ctx)
	var m MapData
	if err := cursor.All(ctx, &m.Lanes); err != nil {
		log.Panicf("input: failed to decode map lanes: %v", err)
	}
	return &m
}

// 校验路网数据的基本一致性
func validateMap(m *MapData) {
	if len(m.Lanes) == 0 {
		log.Panic("input: map has no lanes")
	}
	ids := make(map[int32]struct{}, len(m.Lanes))
	for _, lane := range m.Lanes {
		if len(lane.Line) < 2 {
			log.Panicf("input: lane %d center line needs at least 2 points", lane.ID)
		}
		if _, ok := ids[lane.ID]; ok {
			log.Panicf("input: duplicated lane id %d", lane.ID)
		}
		ids[lane.ID] = struct{}{}
	}
	for _, lane := range m.Lanes {
		for _, suc := range lane.Successors {
			if _, ok := ids[suc]; !ok {
				log.Panicf("input: lane %d references unknown successor %d", lane.ID, suc)
			}
		}
	}
	log.Infof("Lane: %v", len(m.Lanes))
}
