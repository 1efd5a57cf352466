package container

import (
	"log"
)

// Ring 固定容量的FIFO环形缓冲区
// 功能：为轨迹队列与路点缓冲提供有界的先进先出序列
// 说明：生产者从尾部追加，消费者从头部移除；容量在构造时固定，
// 所有写入前都先检查容量，任何时刻长度不会超过容量
type Ring[T any] struct {
	data []T // 底层存储，长度固定为容量
	head int // 头部元素下标
	size int // 当前元素数量
}

// NewRing 创建环形缓冲区
// 功能：初始化一个容量为capacity的空环形缓冲区
// 参数：capacity-容量上限，必须为正数
// 返回：环形缓冲区指针
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		log.Panicf("container: NewRing: capacity must be positive, got %d", capacity)
	}
	return &Ring[T]{
		data: make([]T, capacity),
	}
}

// Len 获取当前元素数量
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap 获取容量上限
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// Free 获取剩余可写入的元素数量
func (r *Ring[T]) Free() int {
	return len(r.data) - r.size
}

// PushBack 向尾部追加元素
// 功能：在容量允许的前提下向尾部写入一个元素
// 返回：true表示写入成功，false表示缓冲区已满（写入被拒绝，不产生任何副作用）
func (r *Ring[T]) PushBack(value T) bool {
	if r.size == len(r.data) {
		return false
	}
	r.data[(r.head+r.size)%len(r.data)] = value
	r.size++
	return true
}

// PopFront 从头部移除元素
// 返回：被移除的元素；如果缓冲区为空则ok为false
func (r *Ring[T]) PopFront() (value T, ok bool) {
	if r.size == 0 {
		return
	}
	value = r.data[r.head]
	var zero T
	r.data[r.head] = zero
	r.head = (r.head + 1) % len(r.data)
	r.size--
	return value, true
}

// Front 获取头部元素（不移除）
func (r *Ring[T]) Front() (value T, ok bool) {
	if r.size == 0 {
		return
	}
	return r.data[r.head], true
}

// Back 获取尾部元素（不移除）
func (r *Ring[T]) Back() (value T, ok bool) {
	if r.size == 0 {
		return
	}
	return r.data[(r.head+r.size-1)%len(r.data)], true
}

// At 获取从头部数起第i个元素
// 说明：下标越界属于调用方错误，直接panic
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		log.Panicf("container: Ring.At: index %d out of range [0, %d)", i, r.size)
	}
	return r.data[(r.head+i)%len(r.data)]
}

// Values 按从头到尾的顺序导出所有元素
func (r *Ring[T]) Values() []T {
	values := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		values[i] = r.data[(r.head+i)%len(r.data)]
	}
	return values
}

// Clear 清空缓冲区
func (r *Ring[T]) Clear() {
	var zero T
	for i := 0; i < r.size; i++ {
		r.data[(r.head+i)%len(r.data)] = zero
	}
	r.head = 0
	r.size = 0
}
