package roadnet

import "github.com/sirupsen/logrus"

// log 路网模块的日志记录器
var log = logrus.WithField("module", "roadnet")
